package kafka

import (
	"context"
	"strings"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/logging"
	"github.com/gabzlaundry/gab/internal/usecase"
)

// stationStage maps a processing station onto the lifecycle stage entering
// it implies. Wash, dry and iron all mean the order is being worked on;
// the rack means it is packed and waiting for pickup.
var stationStage = map[string]domain.Status{
	"WASHING": domain.StatusProcessing,
	"DRYING":  domain.StatusProcessing,
	"IRONING": domain.StatusProcessing,
	"RACK":    domain.StatusReady,
}

// StationEventHandler feeds station scans into the same transition flow the
// staff endpoints use.
type StationEventHandler struct {
	status *usecase.UpdateOrderStatus
}

func NewStationEventHandler(status *usecase.UpdateOrderStatus) *StationEventHandler {
	return &StationEventHandler{status: status}
}

func (h *StationEventHandler) Handle(ctx context.Context, ev usecase.StationEventMsg) error {
	stage, ok := stationStage[strings.ToUpper(strings.TrimSpace(ev.Station))]
	if !ok {
		return domain.Errorf(domain.EINVALID, "unknown station %q", ev.Station)
	}

	_, err := h.status.Execute(ctx, usecase.UpdateOrderStatusInput{
		OrderID: ev.OrderID,
		Next:    string(stage),
		StaffID: ev.StaffID,
	})
	if err != nil && domain.ErrorCode(err) == domain.ECONFLICT {
		// Stations re-announce stages (DRYING after WASHING both map to
		// PROCESSING); a transition the order already made is not a failure.
		logging.FromCtx(ctx).Debug("station event ignored",
			"order_id", ev.OrderID, "station", ev.Station, "err", err)
		return nil
	}
	return err
}

package runner

import (
	"context"

	"hedge_bot/internal/models"
	metrics "hedge_bot/internal/modules/metrics/service"
	"hedge_bot/pkg/logger"

	"github.com/bytedance/sonic"
)

// onUserMessage — consumer-callback user stream сокета. Фильтрует кадры и
// передаёт их в канал диспетчера: события обрабатываются строго по одному,
// в порядке прихода.
func (r *Runner) onUserMessage(raw []byte) {
	var ev models.UserEvent
	if err := sonic.Unmarshal(raw, &ev); err != nil {
		logger.Error("[RUNNER] user frame decode: %v", err)
		return
	}
	if ev.Event != models.EventOrderTradeUpdate {
		return
	}
	if r.log == nil || ev.Order.Symbol != r.log.Symbol {
		return
	}

	r.events <- ev.Order
}

// handle — один шаг машины состояний. Возвращённая ошибка фатальна.
func (r *Runner) handle(ctx context.Context, o models.OrderUpdate) error {
	if r.done {
		return nil
	}

	switch classify(o) {
	case fillLongEntry:
		return r.handleEntry(ctx, o, models.PositionLong)
	case fillShortEntry:
		return r.handleEntry(ctx, o, models.PositionShort)
	case fillLongExit:
		return r.handleExit(ctx, o, models.PositionLong)
	case fillShortExit:
		return r.handleExit(ctx, o, models.PositionShort)
	}
	return nil
}

// handleEntry: сработал входной лимитник стороны. Первый вход получает
// TP и SL одним батчем; повторный — только SL, тейк прошлого цикла ещё
// живёт на бирже.
func (r *Runner) handleEntry(ctx context.Context, o models.OrderUpdate, pos models.PositionSide) error {
	track := r.track(pos)
	if track.state != stateEntryPending {
		return nil
	}

	pb := r.pullbackCounter(pos)
	*pb++
	metrics.PullbackSum.Set(float64(r.log.LongPullback + r.log.ShortPullback))
	metrics.Fills.WithLabelValues(string(pos), "entry").Inc()
	r.journal.RecordFill(ctx, o)

	p := r.pricer()
	sl := slOrder(r.log, p, pos)

	if *pb == 0 {
		tp := tpOrder(r.log, p, pos)
		if err := r.rest.PlaceBatchOrders(ctx, []models.Order{tp, sl}); err != nil {
			return err
		}
		metrics.OrdersPlaced.WithLabelValues("tp_sl", "rest").Add(2)
		logger.Info("[RUNNER] %s %s entered, TP %s / SL %s placed",
			r.log.Symbol, pos, tp.StopPrice, sl.StopPrice)
	} else {
		if err := r.placeWs(ctx, sl); err != nil {
			return err
		}
		logger.Info("[RUNNER] %s %s re-entered (pullback %d), SL %s placed",
			r.log.Symbol, pos, *pb, sl.StopPrice)
	}

	track.state = statePositionOpen
	r.n.Sendf("✅ %s: вход %s исполнен (pullback %d)", r.log.Symbol, pos, *pb)
	return nil
}

// handleExit: сработал закрывающий лимитник. TP гасит весь трейд, SL либо
// перевыставляет вход со сдвигом, либо упирается в потолок pullback.
func (r *Runner) handleExit(ctx context.Context, o models.OrderUpdate, pos models.PositionSide) error {
	track := r.track(pos)
	if track.state != statePositionOpen {
		return nil
	}

	switch o.ClientOrderID {
	case tpID(pos):
		metrics.Fills.WithLabelValues(string(pos), "tp").Inc()
		r.journal.RecordFill(ctx, o)

		if err := r.rest.CancelAllOrders(ctx, r.log.Symbol); err != nil {
			return err
		}
		r.done = true
		logger.Info("[RUNNER] %s %s take profit hit, all orders canceled", r.log.Symbol, pos)
		r.n.Sendf("🏁 %s: тейк %s исполнен, все ордера сняты", r.log.Symbol, pos)

	case slID(pos):
		metrics.Fills.WithLabelValues(string(pos), "sl").Inc()
		r.journal.RecordFill(ctx, o)

		if r.log.LongPullback+r.log.ShortPullback >= r.cfg.Strategy.MaxPullback {
			return ErrMaxPullbackReached
		}

		re := reentryOrder(r.log, r.pricer(), pos)
		if err := r.placeWs(ctx, re); err != nil {
			return err
		}
		track.state = stateEntryPending
		logger.Info("[RUNNER] %s %s stopped out, re-entry at %s", r.log.Symbol, pos, re.StopPrice)
		r.n.Sendf("↩️ %s: стоп %s, перевход на %s", r.log.Symbol, pos, re.StopPrice)
	}
	return nil
}

func (r *Runner) track(pos models.PositionSide) *sideTrack {
	if pos == models.PositionLong {
		return &r.long
	}
	return &r.short
}

func (r *Runner) pullbackCounter(pos models.PositionSide) *int {
	if pos == models.PositionLong {
		return &r.log.LongPullback
	}
	return &r.log.ShortPullback
}

package service

import (
	"context"

	"hedge_bot/internal/models"
	"hedge_bot/pkg/db"
	"hedge_bot/pkg/logger"

	"github.com/jackc/pgx/v5"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS hedge_fills (
	id              BIGSERIAL PRIMARY KEY,
	symbol          TEXT        NOT NULL,
	client_order_id TEXT        NOT NULL,
	side            TEXT        NOT NULL,
	position_side   TEXT        NOT NULL,
	order_type      TEXT        NOT NULL,
	status          TEXT        NOT NULL,
	avg_price       TEXT        NOT NULL DEFAULT '',
	filled_qty      TEXT        NOT NULL DEFAULT '',
	realized_pnl    TEXT        NOT NULL DEFAULT '',
	trade_time      BIGINT      NOT NULL,
	recorded_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertFillSQL = `
INSERT INTO hedge_fills
	(symbol, client_order_id, side, position_side, order_type, status,
	 avg_price, filled_qty, realized_pnl, trade_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Journal — write-only журнал исполнений в Postgres. Никогда не читается
// ботом обратно: состояние трейда живёт только в памяти.
type Journal struct {
	tx *db.PgTxManager
}

func New(ctx context.Context, dsn string) (*Journal, error) {
	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: dsn})
	if err != nil {
		return nil, err
	}

	j := &Journal{tx: db.NewPgTxManager(pool)}
	if err := j.migrate(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate(ctx context.Context) error {
	return j.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, createTableSQL)
		return err
	})
}

// RecordFill пишет исполнение best-effort: ошибка журнала не должна
// останавливать торговлю.
func (j *Journal) RecordFill(ctx context.Context, o models.OrderUpdate) {
	if j == nil {
		return
	}

	err := j.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, insertFillSQL,
			o.Symbol, string(o.ClientOrderID), string(o.Side), string(o.PositionSide),
			string(o.Type), string(o.Status),
			o.AvgPrice, o.FilledQty, o.RealizedPnl, o.TradeTime,
		)
		return err
	})
	if err != nil {
		logger.Error("[JOURNAL] record fill %s: %v", o.ClientOrderID, err)
	}
}

func (j *Journal) Close() {
	if j == nil {
		return
	}
	j.tx.Close()
}

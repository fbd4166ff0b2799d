package runner

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"hedge_bot/internal/helper"
	"hedge_bot/internal/models"
	binance "hedge_bot/internal/modules/binance/service"
	"hedge_bot/internal/modules/config"
	journal "hedge_bot/internal/modules/journal/service"
	metrics "hedge_bot/internal/modules/metrics/service"
	"hedge_bot/internal/notify"
	"hedge_bot/internal/ws"
	"hedge_bot/pkg/logger"
)

// ErrMaxPullbackReached — бюджет риска исчерпан: сумма pullback-счётчиков
// достигла потолка. Фатально by-контракту: дальше бот жить не должен.
var ErrMaxPullbackReached = errors.New("max pullback limit reached")

const (
	marginTypeIsolated = "ISOLATED"
	listenKeyRenewal   = 15 * time.Minute
)

type restAPI interface {
	ChangeLeverage(ctx context.Context, symbol string, leverage int) error
	ChangeMarginType(ctx context.Context, symbol, marginType string) error
	SetHedgeMode(ctx context.Context, dualSidePosition bool) error
	SetMultiAssetMode(ctx context.Context, multiAssetsMargin bool) error
	PlaceBatchOrders(ctx context.Context, orders []models.Order) error
	CancelAllOrders(ctx context.Context, symbol string) error
	CreateListenKey(ctx context.Context) (string, error)
	KeepAliveListenKey(ctx context.Context) error
}

type wsCaller interface {
	Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error)
	GetPrice(ctx context.Context, symbol string) (string, error)
}

// Runner — машина состояний hedge-трейда. Стартует сокеты и настройки
// биржи, выставляет входы, дальше чисто реактивен: каждый кадр user
// stream может породить ноль или больше новых ордеров.
type Runner struct {
	cfg     *config.Config
	rest    restAPI
	caller  wsCaller
	wire    *ws.Caller // привязка к торговому сокету в Start
	n       *notify.Telegram
	journal *journal.Journal

	tradeSess *ws.Session
	userSess  *ws.Session

	// всё ниже мутирует только цикл диспетчера
	log   *models.TradeLog
	long  sideTrack
	short sideTrack
	done  bool

	events chan models.OrderUpdate
}

func New(
	cfg *config.Config,
	rest *binance.Client,
	caller *ws.Caller,
	n *notify.Telegram,
	j *journal.Journal,
) *Runner {
	return &Runner{
		cfg:     cfg,
		rest:    rest,
		caller:  caller,
		wire:    caller,
		n:       n,
		journal: j,
		events:  make(chan models.OrderUpdate, 64),
	}
}

// Start инициализирует биржу и выставляет встречные входы. Дальше всё
// делает цикл диспетчера.
//
// Порядок жёсткий: trade log строится ДО подписки на user stream — callback
// стрима читает r.log, и после открытия сокета r.log уже не переназначается.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.initExchange(ctx); err != nil {
		return err
	}
	if err := r.openTradeSocket(); err != nil {
		return err
	}
	aboveMarket, err := r.prepareTrade(ctx)
	if err != nil {
		return err
	}
	if err := r.openUserStream(ctx); err != nil {
		return err
	}
	if err := r.placeEntries(ctx, aboveMarket); err != nil {
		return err
	}

	go r.loop(ctx)
	return nil
}

func (r *Runner) initExchange(ctx context.Context) error {
	t := r.cfg.Trade

	if err := r.rest.ChangeLeverage(ctx, t.Symbol, t.Leverage); err != nil {
		return err
	}
	if err := r.rest.ChangeMarginType(ctx, t.Symbol, marginTypeIsolated); err != nil {
		return err
	}
	if err := r.rest.SetHedgeMode(ctx, true); err != nil {
		return err
	}
	if err := r.rest.SetMultiAssetMode(ctx, false); err != nil {
		return err
	}

	logger.Info("[RUNNER] %s: leverage=%d margin=%s hedge=on", t.Symbol, t.Leverage, marginTypeIsolated)
	return nil
}

func (r *Runner) openTradeSocket() error {
	sess, err := ws.Dial(r.cfg.API.WSURL, r.wire.HandleMessage, ws.Options{Name: "trade"})
	if err != nil {
		return err
	}
	r.tradeSess = sess
	r.wire.Attach(sess)
	return nil
}

func (r *Runner) openUserStream(ctx context.Context) error {
	key, err := r.rest.CreateListenKey(ctx)
	if err != nil {
		return err
	}
	go r.renewListenKey(ctx)

	sess, err := ws.Dial(r.cfg.API.WSUserStreamURL+key, r.onUserMessage, ws.Options{Name: "user-stream"})
	if err != nil {
		return err
	}
	r.userSess = sess
	return nil
}

func (r *Runner) renewListenKey(ctx context.Context) {
	t := time.NewTicker(listenKeyRenewal)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := r.rest.KeepAliveListenKey(ctx); err != nil {
				logger.Error("[RUNNER] listen key renewal: %v", err)
			}
		}
	}
}

// prepareTrade снимает цену и считает параметры трейда. Единственное место,
// где r.log присваивается.
func (r *Runner) prepareTrade(ctx context.Context) (aboveMarket bool, err error) {
	t := r.cfg.Trade

	price, err := r.caller.GetPrice(ctx, t.Symbol)
	if err != nil {
		return false, err
	}
	marketPx, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return false, err
	}

	r.log = &models.TradeLog{
		Symbol:         t.Symbol,
		UsdtQty:        t.UsdtQty,
		StopPrice:      t.StopPrice,
		Leverage:       t.Leverage,
		AssetPrecision: t.AssetPrecision,
		PricePrecision: helper.PricePrecision(price),
		Quantity:       helper.Quantity(t.UsdtQty, t.StopPrice, t.AssetPrecision),
		LongPullback:   -1,
		ShortPullback:  -1,
	}
	r.long = sideTrack{state: stateEntryPending}
	r.short = sideTrack{state: stateEntryPending}

	logger.Info("[RUNNER] %s: market %s, qty %s", t.Symbol, price, r.log.Quantity)
	return t.StopPrice > marketPx, nil
}

// placeEntries ставит оба встречных входа одним батчем.
func (r *Runner) placeEntries(ctx context.Context, aboveMarket bool) error {
	orders := entryOrders(r.log, r.pricer(), aboveMarket)
	if err := r.rest.PlaceBatchOrders(ctx, orders); err != nil {
		return err
	}
	metrics.OrdersPlaced.WithLabelValues("entry", "rest").Add(float64(len(orders)))

	logger.Info("[RUNNER] %s: entries placed at %s", r.log.Symbol, orders[0].StopPrice)
	r.n.Sendf("⚡️ %s: входы выставлены на %s", r.log.Symbol, orders[0].StopPrice)
	return nil
}

func (r *Runner) pricer() Pricer {
	return Pricer{
		Stop:      r.log.StopPrice,
		TP:        r.cfg.Strategy.TakeProfit,
		SL:        r.cfg.Strategy.StopLoss,
		Delta:     r.cfg.Strategy.Delta,
		Precision: r.log.PricePrecision,
	}
}

func (r *Runner) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case o := <-r.events:
			if err := r.handle(ctx, o); err != nil {
				r.failFast(err)
				return
			}
		}
	}
}

// placeWs шлёт одиночный ордер через торговый сокет.
func (r *Runner) placeWs(ctx context.Context, o models.Order) error {
	if _, err := r.caller.Call(ctx, "order.place", orderParams(o)); err != nil {
		return err
	}
	metrics.OrdersPlaced.WithLabelValues(string(o.ClientOrderID), "ws").Inc()
	return nil
}

// failFast — процессный crash handler: снять все ордера по символу,
// отчитаться и упасть.
func (r *Runner) failFast(err error) {
	logger.Error("[RUNNER] fatal: %v", err)
	r.n.Sendf("🛑 бот остановлен: %v", err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if cerr := r.rest.CancelAllOrders(ctx, r.cfg.Trade.Symbol); cerr != nil {
		logger.Error("[RUNNER] cancel all on shutdown: %v", cerr)
	}

	r.Close()
	logger.Fatal("[RUNNER] %v", err)
}

func (r *Runner) Close() {
	if r.tradeSess != nil {
		r.tradeSess.Close()
	}
	if r.userSess != nil {
		r.userSess.Close()
	}
}

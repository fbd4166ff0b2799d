package runner

import "hedge_bot/internal/models"

// fillKind — классификация fill-события по кортежу
// side/positionSide/type/status. Всё, что не сработавший лимитник нашего
// словаря, диспетчеру неинтересно.
type fillKind int

const (
	fillIgnore fillKind = iota
	fillLongEntry
	fillShortEntry
	fillLongExit
	fillShortExit
)

func classify(o models.OrderUpdate) fillKind {
	if o.Type != models.OrderTypeLimit || o.Status != models.StatusFilled {
		return fillIgnore
	}

	switch {
	case o.Side == models.SideBuy && o.PositionSide == models.PositionLong:
		return fillLongEntry
	case o.Side == models.SideSell && o.PositionSide == models.PositionShort:
		return fillShortEntry
	case o.Side == models.SideSell && o.PositionSide == models.PositionLong:
		return fillLongExit
	case o.Side == models.SideBuy && o.PositionSide == models.PositionShort:
		return fillShortExit
	}
	return fillIgnore
}

// sideState — явное состояние одной стороны hedge-трейда. Событие, не
// подходящее текущему состоянию, даёт no-op, а не молчаливую ветку.
type sideState int

const (
	stateEntryPending sideState = iota // ждём срабатывания входного условного ордера
	statePositionOpen                  // позиция открыта, ждём TP либо SL
)

type sideTrack struct {
	state sideState
}

func entryID(pos models.PositionSide) models.ClientOrderID {
	if pos == models.PositionLong {
		return models.IDLong
	}
	return models.IDShort
}

func tpID(pos models.PositionSide) models.ClientOrderID {
	if pos == models.PositionLong {
		return models.IDLongTP
	}
	return models.IDShortTP
}

func slID(pos models.PositionSide) models.ClientOrderID {
	if pos == models.PositionLong {
		return models.IDLongSL
	}
	return models.IDShortSL
}

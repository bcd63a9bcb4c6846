package journal

import (
	"github.com/shopspring/decimal"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
)

type consumptionPlan struct {
	takes []entity.LotConsumption
	// cost - суммарная себестоимость списанных экземпляров.
	cost decimal.Decimal
	// covered - сколько экземпляров нашлось в открытых покупках.
	covered int64
}

// planConsumption списывает quantity из лотов по FIFO. Лоты должны быть
// упорядочены от старых к новым. Экземпляры, на которые покупок не хватило,
// идут с нулевой себестоимостью.
func planConsumption(lots []entity.Lot, quantity int64) consumptionPlan {
	plan := consumptionPlan{cost: decimal.Zero}
	left := quantity

	for _, lot := range lots {
		if left == 0 {
			break
		}

		if lot.Remaining <= 0 {
			continue
		}

		take := min(lot.Remaining, left)

		plan.takes = append(plan.takes, entity.LotConsumption{
			AcquireID: lot.TradeID,
			Quantity:  take,
			UnitCost:  lot.UnitCost,
		})
		plan.cost = plan.cost.Add(lot.UnitCost.Mul(decimal.NewFromInt(take)))
		plan.covered += take
		left -= take
	}

	return plan
}

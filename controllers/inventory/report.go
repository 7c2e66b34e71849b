package inventoryControllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

// SoldRow is one delivered order line with its month of sale.
type SoldRow struct {
	ProductID uint
	Name      string
	Quantity  int
	UnitPrice float64
	OrderDate time.Time
}

type TurnoverPoint struct {
	Month        string  `json:"month"`
	COGS         float64 `json:"cogs"`
	TurnoverRate float64 `json:"turnover_rate"`
}

type PopularProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	TotalSold int    `json:"total_sold"`
}

type DemandForecast struct {
	ProductID       uint    `json:"product_id"`
	ProductName     string  `json:"product_name"`
	PredictedDemand float64 `json:"predicted_demand"`
}

const popularTopN = 5

// InventoryReportHandler recomputes the three analytics on every call.
// Rows are aggregated in Go so the same code runs against postgres and
// the SQLite test database.
func InventoryReportHandler(db *gorm.DB, lookbackMonths int) gin.HandlerFunc {
	return func(c *gin.Context) {
		since := time.Now().UTC().AddDate(0, -lookbackMonths, 0)

		var rows []SoldRow
		if err := db.Table("order_items").
			Select("order_items.product_id, products.name, order_items.quantity, order_items.unit_price, orders.order_date").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("orders.status = ?", models.OrderStatusDelivered).
			Where("orders.order_date >= ?", since).
			Scan(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute report"})
			return
		}

		var avgInventoryValue float64
		if err := db.Model(&models.Product{}).
			Select("COALESCE(AVG(stock_quantity * price), 0)").
			Scan(&avgInventoryValue).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute report"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"inventory_turnover": TurnoverByMonth(rows, avgInventoryValue),
			"popular_products":   PopularProducts(rows, popularTopN),
			"demand_prediction":  PredictDemand(rows),
		})
	}
}

// TurnoverByMonth buckets cost of goods sold per calendar month and
// divides by the average inventory value.
func TurnoverByMonth(rows []SoldRow, avgInventoryValue float64) []TurnoverPoint {
	cogs := make(map[string]float64)
	for _, r := range rows {
		month := r.OrderDate.Format("2006-01")
		cogs[month] += r.UnitPrice * float64(r.Quantity)
	}

	months := make([]string, 0, len(cogs))
	for m := range cogs {
		months = append(months, m)
	}
	sort.Strings(months)

	points := make([]TurnoverPoint, 0, len(months))
	for _, m := range months {
		p := TurnoverPoint{Month: m, COGS: cogs[m]}
		if avgInventoryValue > 0 {
			p.TurnoverRate = cogs[m] / avgInventoryValue
		}
		points = append(points, p)
	}
	return points
}

// PopularProducts ranks products by total quantity sold.
func PopularProducts(rows []SoldRow, topN int) []PopularProduct {
	type agg struct {
		name  string
		total int
	}
	totals := make(map[uint]*agg)
	for _, r := range rows {
		a, ok := totals[r.ProductID]
		if !ok {
			a = &agg{name: r.Name}
			totals[r.ProductID] = a
		}
		a.total += r.Quantity
	}

	ranked := make([]PopularProduct, 0, len(totals))
	for id, a := range totals {
		ranked = append(ranked, PopularProduct{ProductID: id, Name: a.name, TotalSold: a.total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalSold != ranked[j].TotalSold {
			return ranked[i].TotalSold > ranked[j].TotalSold
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// PredictDemand forecasts next-month demand per product as the simple
// moving average of its three most recent months of sales, or the mean
// of however many months exist when fewer.
func PredictDemand(rows []SoldRow) []DemandForecast {
	type monthly struct {
		name   string
		totals map[string]int
	}
	byProduct := make(map[uint]*monthly)
	for _, r := range rows {
		m, ok := byProduct[r.ProductID]
		if !ok {
			m = &monthly{name: r.Name, totals: make(map[string]int)}
			byProduct[r.ProductID] = m
		}
		m.totals[r.OrderDate.Format("2006-01")] += r.Quantity
	}

	forecasts := make([]DemandForecast, 0, len(byProduct))
	for id, m := range byProduct {
		months := make([]string, 0, len(m.totals))
		for month := range m.totals {
			months = append(months, month)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(months)))
		if len(months) > 3 {
			months = months[:3]
		}

		var sum int
		for _, month := range months {
			sum += m.totals[month]
		}
		forecasts = append(forecasts, DemandForecast{
			ProductID:       id,
			ProductName:     m.name,
			PredictedDemand: float64(sum) / float64(len(months)),
		})
	}
	sort.Slice(forecasts, func(i, j int) bool { return forecasts[i].ProductID < forecasts[j].ProductID })
	return forecasts
}

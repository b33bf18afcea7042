package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

type snapshotDocument struct {
	GeneratedAt    time.Time            `bson:"generated_at"`
	TotalPurchases primitive.Decimal128 `bson:"total_purchases"`
	TotalSales     primitive.Decimal128 `bson:"total_sales"`
	TotalExpenses  primitive.Decimal128 `bson:"total_expenses"`
	NetProfit      primitive.Decimal128 `bson:"net_profit"`
	Stock          []stockDocument      `bson:"stock"`
	PurchaseCount  int                  `bson:"purchase_count"`
	SaleCount      int                  `bson:"sale_count"`
	ExpenseCount   int                  `bson:"expense_count"`
}

type stockDocument struct {
	Item      string               `bson:"item"`
	Remaining primitive.Decimal128 `bson:"remaining"`
}

func toDocument(s models.ReportSnapshot) (snapshotDocument, error) {
	doc := snapshotDocument{
		GeneratedAt:   s.GeneratedAt,
		Stock:         make([]stockDocument, 0, len(s.Stock)),
		PurchaseCount: s.PurchaseCount,
		SaleCount:     s.SaleCount,
		ExpenseCount:  s.ExpenseCount,
	}

	var err error
	if doc.TotalPurchases, err = toDecimal128(s.Totals.TotalPurchases); err != nil {
		return doc, err
	}
	if doc.TotalSales, err = toDecimal128(s.Totals.TotalSales); err != nil {
		return doc, err
	}
	if doc.TotalExpenses, err = toDecimal128(s.Totals.TotalExpenses); err != nil {
		return doc, err
	}
	if doc.NetProfit, err = toDecimal128(s.Totals.NetProfit); err != nil {
		return doc, err
	}

	for _, line := range s.Stock {
		remaining, err := toDecimal128(line.Remaining)
		if err != nil {
			return doc, err
		}
		doc.Stock = append(doc.Stock, stockDocument{Item: line.Item, Remaining: remaining})
	}
	return doc, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	value, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d, err)
	}
	return value, nil
}

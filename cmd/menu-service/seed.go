package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Rogerio-17/cardapio-digital-web/internal/catalog"
	"github.com/Rogerio-17/cardapio-digital-web/internal/checkout"
	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
	"github.com/Rogerio-17/cardapio-digital-web/internal/logger"
	"github.com/Rogerio-17/cardapio-digital-web/internal/orders"
)

var (
	seedCount      int
	seedRestaurant string
)

var seedOrdersCmd = &cobra.Command{
	Use:   "seed-orders",
	Short: "Create fake orders so the dashboard has something to show",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel, cfg.LogFormat)
		ctx := context.Background()

		var cl closers
		defer cl.closeAll()

		catalogRepo, err := openCatalog(ctx, cfg, log, &cl)
		if err != nil {
			return err
		}
		orderRepo, err := openOrderRepository(cfg, log, &cl)
		if err != nil {
			return err
		}
		res, err := catalogRepo.GetRestaurant(ctx, seedRestaurant)
		if err != nil {
			return fmt.Errorf("restaurant %s: %w", seedRestaurant, err)
		}

		svc := orders.NewService(orderRepo, log)
		n, err := seedOrders(ctx, svc, res, faker.New(), seedCount, time.Now())
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"restaurant": res.Slug, "orders": n}).Info("seeded orders")
		return nil
	},
}

func init() {
	seedOrdersCmd.Flags().IntVar(&seedCount, "count", 20, "number of orders to create")
	seedOrdersCmd.Flags().StringVar(&seedRestaurant, "restaurant", "bistro-gourmet", "restaurant slug")
}

func seedOrders(ctx context.Context, svc *orders.Service, res *domain.Restaurant, fake faker.Faker, count int, now time.Time) (int, error) {
	var products []domain.Product
	for _, c := range res.Categories {
		products = append(products, c.Products...)
	}
	if len(products) == 0 {
		return 0, fmt.Errorf("restaurant %s has no products: %w", res.Slug, catalog.ErrProductNotFound)
	}

	for i := 0; i < count; i++ {
		sub := fakeSubmission(res, products, fake, now)
		order, err := svc.Create(ctx, sub)
		if err != nil {
			return i, err
		}
		// Walk a random distance along the status workflow.
		for steps := fake.IntBetween(0, 4); steps > 0; steps-- {
			next := order.NextStatuses()
			if len(next) == 0 {
				break
			}
			if order, err = svc.UpdateStatus(ctx, order.ID, next[0]); err != nil {
				return i, err
			}
		}
	}
	return count, nil
}

func fakeSubmission(res *domain.Restaurant, products []domain.Product, fake faker.Faker, now time.Time) checkout.Submission {
	var items []domain.LineItem
	for n := fake.IntBetween(1, 3); n > 0; n-- {
		p := products[fake.IntBetween(0, len(products)-1)]
		item := domain.LineItem{
			ID:        domain.LineItemID(uuid.NewString()),
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Image:     p.Image,
			Quantity:  fake.IntBetween(1, 3),
			Size:      p.DefaultSize(),
		}
		item.Recalculate()
		items = append(items, item)
	}

	var delivery domain.DeliveryInfo
	switch fake.IntBetween(0, 2) {
	case 0:
		addr := fake.Address()
		delivery = domain.Delivery{Address: domain.Address{
			Street:       addr.StreetName(),
			Number:       addr.BuildingNumber(),
			Neighborhood: addr.City(),
			City:         addr.City(),
			State:        addr.StateAbbr(),
			ZipCode:      addr.PostCode(),
		}}
	case 1:
		delivery = domain.Pickup{}
	default:
		delivery = domain.DineIn{TableNumber: strconv.Itoa(fake.IntBetween(1, 30))}
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	var payment domain.PaymentInfo
	switch fake.IntBetween(0, 2) {
	case 0:
		payment = domain.Pix{}
	case 1:
		payment = domain.Card{}
	default:
		payment = domain.Cash{NeedsChange: true, ChangeFor: total.Add(decimal.NewFromInt(50)).Round(-1)}
	}

	return checkout.Submission{
		ID:            uuid.New(),
		RestaurantID:  res.ID,
		Customer:      domain.CustomerInfo{Name: fake.Person().Name(), Phone: fake.Phone().Number()},
		Delivery:      delivery,
		Payment:       payment,
		Items:         items,
		TotalPrice:    total,
		DeliveryFee:   res.DeliveryFee,
		EstimatedTime: checkout.EstimatedTime(delivery.Type()),
		SubmittedAt:   now.Add(-time.Duration(fake.IntBetween(0, 72*60)) * time.Minute),
	}
}

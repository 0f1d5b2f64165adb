package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rogerio-17/cardapio-digital-web/internal/domain"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func img(id string) string {
	return "https://images.unsplash.com/" + id + "?w=400&h=300&fit=crop&crop=center"
}

var pizzaSizes = []domain.Size{
	{ID: "p", Name: "P", Price: money("24")},
	{ID: "m", Name: "M", Price: money("32")},
	{ID: "g", Name: "G", Price: money("48")},
}

var pizzaAdditionals = []domain.Additional{
	{ID: "1", Name: "Borda Recheada", Price: money("8"), Description: "Borda recheada com catupiry"},
	{ID: "2", Name: "Extra Queijo", Price: money("5"), Description: "Porção extra de mussarela"},
	{ID: "3", Name: "Manjericão Extra", Price: money("2"), Description: "Manjericão fresco adicional"},
	{ID: "4", Name: "Azeitonas", Price: money("3"), Description: "Azeitonas pretas fatiadas"},
	{ID: "5", Name: "Tomate Seco", Price: money("4"), Description: "Tomate seco italiano"},
}

var burgerAdditionals = []domain.Additional{
	{ID: "bacon", Name: "Bacon extra", Price: money("5"), Description: "Fatias de bacon crocante"},
	{ID: "cheddar", Name: "Cheddar", Price: money("4"), Description: "Cheddar cremoso"},
	{ID: "ovo", Name: "Ovo", Price: money("3")},
}

// DefaultRestaurants is the demo catalog served until real tenants register.
func DefaultRestaurants() []*domain.Restaurant {
	return []*domain.Restaurant{bistroGourmet()}
}

func bistroGourmet() *domain.Restaurant {
	return &domain.Restaurant{
		ID:          "bistro-gourmet",
		Slug:        "bistro-gourmet",
		Name:        "Bistro Gourmet",
		Description: "Experiência gastronômica única com pratos autorais e ambiente acolhedor",
		Banner:      "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=1200&h=600&fit=crop&crop=center",
		Logo:        "https://images.unsplash.com/photo-1414235077428-338989a2e8c0?w=200&h=200&fit=crop&crop=center",
		Cuisine:     "contemporânea",
		Contact: domain.Contact{
			Phone: "(11) 99999-9999",
			Email: "contato@bistrogourmet.com",
		},
		Address: domain.Address{
			Street:       "Rua das Flores",
			Number:       "123",
			Neighborhood: "Centro",
			City:         "São Paulo",
			State:        "SP",
			ZipCode:      "01001000",
		},
		Hours: []domain.OpeningHours{
			{Day: "monday", Open: "11:00", Close: "22:00"},
			{Day: "tuesday", Open: "11:00", Close: "22:00"},
			{Day: "wednesday", Open: "11:00", Close: "22:00"},
			{Day: "thursday", Open: "11:00", Close: "22:00"},
			{Day: "friday", Open: "11:00", Close: "22:00"},
			{Day: "saturday", Open: "11:00", Close: "23:00"},
			{Day: "sunday", Open: "11:00", Close: "23:00"},
		},
		DeliveryFee:         money("6"),
		MinimumOrder:        money("20"),
		EstimatedMinMinutes: 30,
		EstimatedMaxMinutes: 50,
		PaymentMethods:      []domain.PaymentMethod{domain.PaymentMethodPix, domain.PaymentMethodCash, domain.PaymentMethodCard},
		IsActive:            true,
		CreatedAt:           time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Categories: []domain.Category{
			{
				ID:   "entradas",
				Name: "Entradas",
				Products: []domain.Product{
					{CategoryID: "entradas", ID: "1", Name: "Bruschetta Especial", Description: "Pão artesanal com tomate, manjericão fresco e queijo de cabra", Price: money("24.9"), Image: img("photo-1572695157366-5e585ab2b69f")},
					{CategoryID: "entradas", ID: "2", Name: "Carpaccio de Salmão", Description: "Finas fatias de salmão com alcaparras e molho de mostarda", Price: money("32.9"), Image: img("photo-1544025162-d76694265947")},
				},
			},
			{
				ID:   "pratos-principais",
				Name: "Pratos Principais",
				Products: []domain.Product{
					{CategoryID: "pratos-principais", ID: "3", Name: "Risotto de Cogumelos", Description: "Arroz arbóreo com mix de cogumelos e parmesão", Price: money("45.9"), Image: img("photo-1476124369491-e7addf5db371")},
					{CategoryID: "pratos-principais", ID: "4", Name: "Salmão Grelhado", Description: "Filé de salmão com legumes refogados e molho de ervas", Price: money("52.9"), Image: img("photo-1467003909585-2f8a72700288"), Featured: true},
					{CategoryID: "pratos-principais", ID: "5", Name: "Picanha na Brasa", Description: "Picanha grelhada com farofa, vinagrete e mandioca", Price: money("65.9"), Image: img("photo-1558030006-450675393462")},
					{CategoryID: "pratos-principais", ID: "10", Name: "Hambúrguer Artesanal", Description: "Blend especial 180g, queijo artesanal, bacon e molho da casa", Price: money("38.9"), Image: img("photo-1568901346375-23c9450c58cd"), Featured: true, Additionals: burgerAdditionals},
					{CategoryID: "pratos-principais", ID: "11", Name: "Pizza Margherita Premium", Description: "Massa fermentada, tomate San Marzano, mussarela de búfala e manjericão", Price: money("45.9"), Image: img("photo-1513104890138-7c749659a591"), Featured: true, Sizes: pizzaSizes, Additionals: pizzaAdditionals},
					{CategoryID: "pratos-principais", ID: "12", Name: "Pasta Carbonara Tradicional", Description: "Espaguete al dente com bacon, ovos, queijo pecorino e pimenta preta", Price: money("42.9"), Image: img("photo-1551892374-ecf8754cf8b0"), Featured: true},
				},
			},
			{
				ID:   "bebidas",
				Name: "Bebidas",
				Products: []domain.Product{
					{CategoryID: "bebidas", ID: "6", Name: "Vinho Tinto Reserva", Description: "Taça de vinho tinto chileno reserva", Price: money("89.9"), Image: img("photo-1510812431401-41d2bd2722f3")},
					{CategoryID: "bebidas", ID: "7", Name: "Suco Natural", Description: "Suco da fruta da estação, 500ml", Price: money("12.9"), Image: img("photo-1600271886742-f049cd451bba")},
				},
			},
			{
				ID:   "sobremesas",
				Name: "Sobremesas",
				Products: []domain.Product{
					{CategoryID: "sobremesas", ID: "8", Name: "Petit Gateau", Description: "Bolinho de chocolate com sorvete de baunilha", Price: money("18.9"), Image: img("photo-1563805042-7684c019e1cb"), Featured: true},
					{CategoryID: "sobremesas", ID: "9", Name: "Cheesecake de Frutas Vermelhas", Description: "Cheesecake cremoso com calda de frutas vermelhas", Price: money("16.9"), Image: img("photo-1533134242443-d4fd215305ad")},
				},
			},
		},
	}
}

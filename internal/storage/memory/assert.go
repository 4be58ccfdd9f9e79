package memory

import (
	"github.com/Emmanuel-365/chezflora-api/internal/cart"
	"github.com/Emmanuel-365/chezflora-api/internal/catalog"
	"github.com/Emmanuel-365/chezflora-api/internal/order"
	"github.com/Emmanuel-365/chezflora-api/internal/payment"
	"github.com/Emmanuel-365/chezflora-api/internal/quote"
	"github.com/Emmanuel-365/chezflora-api/internal/storage"
	"github.com/Emmanuel-365/chezflora-api/internal/subscription"
	"github.com/Emmanuel-365/chezflora-api/internal/user"
	"github.com/Emmanuel-365/chezflora-api/internal/workshop"
)

var (
	_ storage.TxManager       = (*Store)(nil)
	_ user.Repository         = (*Users)(nil)
	_ catalog.Repository      = (*Catalog)(nil)
	_ cart.Repository         = (*Carts)(nil)
	_ order.Repository        = (*Orders)(nil)
	_ payment.Repository      = (*Payments)(nil)
	_ subscription.Repository = (*Subscriptions)(nil)
	_ quote.Repository        = (*Quotes)(nil)
	_ workshop.Repository     = (*Workshops)(nil)
)

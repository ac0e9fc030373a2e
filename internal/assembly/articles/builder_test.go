package articles

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"paybridge/internal/assembly/models"
	orderstore "paybridge/internal/assembly/store/order"
	"paybridge/internal/assembly/store/settings"
	"paybridge/pkg/testutil"
)

type BuilderSuite struct {
	suite.Suite

	config  *settings.MemorySource
	cart    *orderstore.MemoryStore
	builder *Builder
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

func (s *BuilderSuite) SetupTest() {
	s.config = settings.New(map[string]string{
		KeyPriceIncludesTax: "1",
		KeyShippingTaxClass: "2",
	})
	s.cart = orderstore.NewMemory()
	tax := settings.NewTaxRates(map[int]float64{2: 21})

	builder, err := New(s.config, s.cart, tax)
	s.Require().NoError(err)
	s.builder = builder
}

func item(name, sku string, qty, rowTotalInclTax float64) models.CartItem {
	return models.CartItem{
		Name:            name,
		SKU:             sku,
		Qty:             qty,
		RowTotalInclTax: rowTotalInclTax,
		RowTotal:        rowTotalInclTax,
		TaxPercent:      21,
		HasTaxPercent:   true,
	}
}

// groupIndexes returns the distinct article group indexes in record order.
func groupIndexes(records []models.ParameterRecord) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range records {
		if r.Group != models.GroupArticle || seen[r.GroupIndex] {
			continue
		}
		seen[r.GroupIndex] = true
		out = append(out, r.GroupIndex)
	}
	return out
}

// descriptionOf returns the Description value of an article group.
func descriptionOf(records []models.ParameterRecord, groupIndex string) string {
	for _, r := range records {
		if r.Group == models.GroupArticle && r.GroupIndex == groupIndex && r.Name == "Description" {
			return r.Value
		}
	}
	return ""
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *BuilderSuite) TestNew() {
	tax := settings.NewTaxRates(nil)

	s.Run("requires a config source", func() {
		_, err := New(nil, s.cart, tax)
		s.Error(err)
	})

	s.Run("requires a cart source", func() {
		_, err := New(s.config, nil, tax)
		s.Error(err)
	})

	s.Run("requires a tax rate provider", func() {
		_, err := New(s.config, s.cart, nil)
		s.Error(err)
	})
}

// =============================================================================
// BuildLines Tests
// =============================================================================

func (s *BuilderSuite) TestBuildLines() {
	ctx := testutil.Context(s.T())

	s.Run("sequential indexes starting at one", func() {
		items := []models.CartItem{
			item("Shirt", "SH-1", 1, 20),
			item("Shoes", "SN-1", 2, 119.90),
		}
		records, err := s.builder.BuildLines(ctx, items, 0, 0)
		s.Require().NoError(err)
		s.Equal([]string{"1", "2"}, groupIndexes(records))
		s.Len(records, 10)
	})

	s.Run("unit price is row total divided by quantity, rounded", func() {
		records, err := s.builder.BuildLines(ctx, []models.CartItem{item("Shoes", "SN-1", 3, 100)}, 0, 0)
		s.Require().NoError(err)
		var price string
		for _, r := range records {
			if r.Name == "GrossUnitPrice" {
				price = r.Value
			}
		}
		s.Equal("33.33", price)
	})

	s.Run("row total excluding tax used when prices exclude tax", func() {
		s.config.Set(KeyPriceIncludesTax, "0")
		defer s.config.Set(KeyPriceIncludesTax, "1")

		it := item("Shirt", "SH-1", 1, 24.2)
		it.RowTotal = 20

		records, err := s.builder.BuildLines(ctx, []models.CartItem{it}, 0, 0)
		s.Require().NoError(err)
		var price string
		for _, r := range records {
			if r.Name == "GrossUnitPrice" {
				price = r.Value
			}
		}
		s.Equal("20", price)
	})

	s.Run("skips empty, child and non-positive rows", func() {
		child := item("Bundle part", "BP-1", 1, 10)
		child.HasParent = true
		zero := item("Freebie", "FR-1", 1, 0)
		negative := item("Adjustment", "ADJ-1", 1, -5)

		items := []models.CartItem{
			{},
			child,
			zero,
			negative,
			item("Shirt", "SH-1", 1, 20),
		}
		records, err := s.builder.BuildLines(ctx, items, 0, 0)
		s.Require().NoError(err)
		s.Equal([]string{"1"}, groupIndexes(records))
		s.Equal("Shirt", descriptionOf(records, "1"))
	})

	s.Run("caps merchandise at 99 and keeps synthetic lines", func() {
		items := make([]models.CartItem, 0, 120)
		for i := 0; i < 120; i++ {
			items = append(items, item(fmt.Sprintf("Item %d", i+1), fmt.Sprintf("SKU-%d", i+1), 1, 10))
		}

		records, err := s.builder.BuildLines(ctx, items, 5.95, -2.50)
		s.Require().NoError(err)

		indexes := groupIndexes(records)
		s.Len(indexes, 101, "99 merchandise lines plus shipping plus discount")
		s.Equal("Item 99", descriptionOf(records, "99"))
		s.Equal("Shipping fee", descriptionOf(records, "100"))
		s.Equal("Korting", descriptionOf(records, "101"))
	})

	s.Run("configured cap below the hard limit applies", func() {
		s.config.Set(KeyMaxArticleCount, "2")
		defer s.config.Set(KeyMaxArticleCount, "")

		items := []models.CartItem{
			item("A", "A", 1, 10),
			item("B", "B", 1, 10),
			item("C", "C", 1, 10),
		}
		records, err := s.builder.BuildLines(ctx, items, 0, 0)
		s.Require().NoError(err)
		s.Equal([]string{"1", "2"}, groupIndexes(records))
	})

	s.Run("configured cap above the hard limit is ignored", func() {
		s.config.Set(KeyMaxArticleCount, "500")
		defer s.config.Set(KeyMaxArticleCount, "")

		items := make([]models.CartItem, 0, 110)
		for i := 0; i < 110; i++ {
			items = append(items, item(fmt.Sprintf("Item %d", i+1), fmt.Sprintf("SKU-%d", i+1), 1, 10))
		}
		records, err := s.builder.BuildLines(ctx, items, 0, 0)
		s.Require().NoError(err)
		s.Len(groupIndexes(records), MaxArticleCount)
	})

	s.Run("shipping fee line carries the shipping tax rate", func() {
		records, err := s.builder.BuildLines(ctx, []models.CartItem{item("Shirt", "SH-1", 1, 20)}, 6.95, 0)
		s.Require().NoError(err)

		s.Equal([]string{"1", "2"}, groupIndexes(records))
		s.Equal("Shipping fee", descriptionOf(records, "2"))
		for _, r := range records {
			if r.GroupIndex != "2" {
				continue
			}
			switch r.Name {
			case "Identifier":
				s.Equal("1", r.Value)
			case "Quantity":
				s.Equal("1", r.Value)
			case "GrossUnitPrice":
				s.Equal("6.95", r.Value)
			case "VatPercentage":
				s.Equal("21", r.Value)
			}
		}
	})

	s.Run("zero shipping emits no shipping line", func() {
		records, err := s.builder.BuildLines(ctx, []models.CartItem{item("Shirt", "SH-1", 1, 20)}, 0, 0)
		s.Require().NoError(err)
		s.Equal([]string{"1"}, groupIndexes(records))
	})

	s.Run("negative discount emits exactly one Korting line", func() {
		records, err := s.builder.BuildLines(ctx, []models.CartItem{item("Shirt", "SH-1", 1, 20)}, 0, -4.119)
		s.Require().NoError(err)

		s.Equal([]string{"1", "2"}, groupIndexes(records))
		s.Equal("Korting", descriptionOf(records, "2"))
		for _, r := range records {
			if r.GroupIndex != "2" {
				continue
			}
			switch r.Name {
			case "GrossUnitPrice":
				s.Equal("-4.12", r.Value, "discount amount rounded to cents")
			case "VatPercentage":
				s.Equal("0", r.Value)
			}
		}
	})

	s.Run("zero or positive discount emits no discount line", func() {
		for _, discount := range []float64{0, 3.50} {
			records, err := s.builder.BuildLines(ctx, []models.CartItem{item("Shirt", "SH-1", 1, 20)}, 0, discount)
			s.Require().NoError(err)
			s.Equal([]string{"1"}, groupIndexes(records))
		}
	})

	s.Run("absent vat percent defaults to zero", func() {
		it := item("Shirt", "SH-1", 1, 20)
		it.HasTaxPercent = false
		it.TaxPercent = 99

		records, err := s.builder.BuildLines(ctx, []models.CartItem{it}, 0, 0)
		s.Require().NoError(err)
		for _, r := range records {
			if r.Name == "VatPercentage" {
				s.Equal("0", r.Value)
			}
		}
	})
}

// =============================================================================
// Build / BuildForCreditMemo Tests
// =============================================================================

func (s *BuilderSuite) TestBuild() {
	ctx := testutil.Context(s.T())

	s.Run("rejects nil order", func() {
		_, err := s.builder.Build(ctx, nil)
		s.Error(err)
	})

	s.Run("loads items from the order's quote", func() {
		s.cart.PutItems("quote-7", []models.CartItem{item("Shirt", "SH-1", 1, 20)})
		order := &models.Order{ID: "order-7", QuoteID: "quote-7", DiscountAmount: -1}

		records, err := s.builder.Build(ctx, order)
		s.Require().NoError(err)
		s.Equal([]string{"1", "2"}, groupIndexes(records))
		s.Equal("Korting", descriptionOf(records, "2"))
	})
}

func (s *BuilderSuite) TestBuildForCreditMemo() {
	ctx := testutil.Context(s.T())

	s.Run("rejects nil memo", func() {
		_, err := s.builder.BuildForCreditMemo(ctx, nil)
		s.Error(err)
	})

	s.Run("builds from memo rows including refunded shipping", func() {
		memo := &models.CreditMemo{
			ID:             "memo-1",
			OrderID:        "order-7",
			Items:          []models.CartItem{item("Shirt", "SH-1", 1, 20)},
			ShippingAmount: 6.95,
		}
		records, err := s.builder.BuildForCreditMemo(ctx, memo)
		s.Require().NoError(err)
		s.Equal([]string{"1", "2"}, groupIndexes(records))
		s.Equal("Shipping fee", descriptionOf(records, "2"))
	})
}

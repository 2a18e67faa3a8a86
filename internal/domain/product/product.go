package product

import "fmt"

// Product is a catalog row (immutable value object).
type Product struct {
	name               string
	tags               string
	discountedPrice    Number
	actualPrice        Number
	discountPercentage Number
	imageLink          string
	rating             Number
}

// Fields carries the raw column values used to build a Product.
type Fields struct {
	Name               string
	Tags               string
	DiscountedPrice    Number
	ActualPrice        Number
	DiscountPercentage Number
	ImageLink          string
	Rating             Number
}

// New validates and creates a Product. Name is required; tags may be empty.
func New(f Fields) (Product, error) {
	if f.Name == "" {
		return Product{}, fmt.Errorf("product name is required")
	}
	return Product{
		name:               f.Name,
		tags:               f.Tags,
		discountedPrice:    f.DiscountedPrice,
		actualPrice:        f.ActualPrice,
		discountPercentage: f.DiscountPercentage,
		imageLink:          f.ImageLink,
		rating:             f.Rating,
	}, nil
}

// Name returns the product name, the catalog's de-facto identifier.
func (p *Product) Name() string { return p.name }

// Tags returns the free-text tag string.
func (p *Product) Tags() string { return p.tags }

// DiscountedPrice returns the discounted price.
func (p *Product) DiscountedPrice() Number { return p.discountedPrice }

// ActualPrice returns the list price.
func (p *Product) ActualPrice() Number { return p.actualPrice }

// DiscountPercentage returns the discount percentage.
func (p *Product) DiscountPercentage() Number { return p.discountPercentage }

// ImageLink returns the image URI.
func (p *Product) ImageLink() string { return p.imageLink }

// Rating returns the rating.
func (p *Product) Rating() Number { return p.rating }

// View is the display projection of a Product.
type View struct {
	Name               string `json:"name"`
	DiscountedPrice    Number `json:"discounted_price"`
	ActualPrice        Number `json:"actual_price"`
	DiscountPercentage Number `json:"discount_percentage"`
	ImageLink          string `json:"img_link"`
	Rating             Number `json:"rating"`
}

// View projects the product onto its display fields.
func (p *Product) View() View {
	return View{
		Name:               p.name,
		DiscountedPrice:    p.discountedPrice,
		ActualPrice:        p.actualPrice,
		DiscountPercentage: p.discountPercentage,
		ImageLink:          p.imageLink,
		Rating:             p.rating,
	}
}

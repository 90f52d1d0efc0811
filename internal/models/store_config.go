package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HeroBanner is a storefront carousel entry.
type HeroBanner struct {
	ImageURL string `bson:"imageUrl" json:"imageUrl"`
	Title    string `bson:"title,omitempty" json:"title,omitempty"`
	Subtitle string `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	LinkURL  string `bson:"linkUrl,omitempty" json:"linkUrl,omitempty"`
}

// NavCategory drives the storefront navigation.
type NavCategory struct {
	Name         string `bson:"name" json:"name"`
	Slug         string `bson:"slug" json:"slug"`
	ShowInNavbar bool   `bson:"showInNavbar" json:"showInNavbar"`
	Order        int    `bson:"order" json:"order"`
}

// AboutSection is the optional about-us block on the storefront.
type AboutSection struct {
	Enabled     bool     `bson:"enabled" json:"enabled"`
	Title       string   `bson:"title,omitempty" json:"title,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Images      []string `bson:"images,omitempty" json:"images,omitempty"`
}

// SocialLinks holds the storefront's social profiles.
type SocialLinks struct {
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Whatsapp  string `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
}

// SEOConfig holds meta tags for the storefront.
type SEOConfig struct {
	MetaTitle       string `bson:"metaTitle,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	MetaKeywords    string `bson:"metaKeywords,omitempty" json:"metaKeywords,omitempty"`
}

// StoreConfig is the per-tenant theming and content document, created
// lazily with defaults on first access.
type StoreConfig struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID         primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	StoreName        string             `bson:"storeName" json:"storeName"`
	StoreDescription string             `bson:"storeDescription,omitempty" json:"storeDescription,omitempty"`
	LogoURL          string             `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	FaviconURL       string             `bson:"faviconUrl,omitempty" json:"faviconUrl,omitempty"`
	PrimaryColor     string             `bson:"primaryColor,omitempty" json:"primaryColor,omitempty"`
	SecondaryColor   string             `bson:"secondaryColor,omitempty" json:"secondaryColor,omitempty"`
	BackgroundColor  string             `bson:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	TextColor        string             `bson:"textColor,omitempty" json:"textColor,omitempty"`
	HeroBanners      []HeroBanner       `bson:"heroBanners,omitempty" json:"heroBanners,omitempty"`
	Categories       []NavCategory      `bson:"categories" json:"categories"`
	AboutUs          AboutSection       `bson:"aboutUs" json:"aboutUs"`
	ContactEmail     string             `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	ContactPhone     string             `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	Address          string             `bson:"address,omitempty" json:"address,omitempty"`
	SocialLinks      SocialLinks        `bson:"socialLinks" json:"socialLinks"`
	SEO              SEOConfig          `bson:"seo" json:"seo"`
	Currency         string             `bson:"currency" json:"currency"`
	CurrencySymbol   string             `bson:"currencySymbol" json:"currencySymbol"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

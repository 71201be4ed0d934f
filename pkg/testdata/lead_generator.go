// Package testdata generates realistic leads and staff accounts for tests
// and the demo seeder.
package testdata

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// LeadTypes are the property categories leads are tagged with
var LeadTypes = []string{"Residential", "Commercial"}

// LocationData maps a region to cities whose phone numbers share its format
var LocationData = map[string][]string{
	"US": {"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
		"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose"},
	"AU": {"Sydney", "Melbourne", "Brisbane", "Perth", "Adelaide",
		"Gold Coast", "Canberra", "Newcastle", "Wollongong", "Logan"},
}

var commercialSuffixes = []string{"Holdings", "Properties", "Warehousing", "Logistics", "Retail Group", "Developments"}

// LeadGeneratorConfig configures lead generation
type LeadGeneratorConfig struct {
	Region       string
	Count        int
	EmailChance  float64 // 0.0-1.0
	PhoneChance  float64
	RemarkChance float64
}

// DefaultLeadConfig fills in every lead with a phone and most with an email
func DefaultLeadConfig(count int) LeadGeneratorConfig {
	return LeadGeneratorConfig{
		Region:       "US",
		Count:        count,
		EmailChance:  0.7,
		PhoneChance:  0.9,
		RemarkChance: 0.3,
	}
}

// Generator produces fake records from a seeded faker so runs are repeatable
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator. A zero seed picks a random one.
func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Pick returns a random element of items
func (g *Generator) Pick(items []string) string {
	return items[g.faker.Number(0, len(items)-1)]
}

// Chance returns true with probability p
func (g *Generator) Chance(p float64) bool {
	return g.faker.Float64Range(0, 1) < p
}

// LeadName returns a person's name for residential leads and a business
// name for commercial ones
func (g *Generator) LeadName(leadType string) string {
	if leadType == "Commercial" {
		return fmt.Sprintf("%s %s", g.faker.LastName(), g.Pick(commercialSuffixes))
	}
	return g.faker.Name()
}

// Phone returns a number in the region's national format
func (g *Generator) Phone(region string) string {
	if region == "AU" {
		return fmt.Sprintf("04%s %s %s", g.faker.DigitN(2), g.faker.DigitN(3), g.faker.DigitN(3))
	}
	return fmt.Sprintf("(%d) 555-%s", g.faker.Number(201, 989), g.faker.DigitN(4))
}

// Lead creates a single lead request. Every lead satisfies the
// name plus phone-or-email requirement.
func (g *Generator) Lead(cfg LeadGeneratorConfig) models.CreateLeadRequest {
	region := cfg.Region
	if _, ok := LocationData[region]; !ok {
		region = "US"
	}
	leadType := g.Pick(LeadTypes)
	req := models.CreateLeadRequest{
		Name:          g.LeadName(leadType),
		Type:          leadType,
		StreetAddress: g.faker.Street(),
		City:          strings.ToLower(g.Pick(LocationData[region])),
		Postcode:      g.faker.Zip(),
	}

	if g.Chance(cfg.PhoneChance) {
		req.PhoneNumber = g.Phone(region)
	}
	if g.Chance(cfg.EmailChance) || req.PhoneNumber == "" {
		local := strings.ToLower(strings.NewReplacer(" ", ".", "'", "").Replace(req.Name))
		req.EmailAddress = fmt.Sprintf("%s@%s", local, g.faker.DomainName())
	}
	if g.Chance(cfg.RemarkChance) {
		req.Remarks = g.faker.Sentence(8)
	}
	return req
}

// Leads creates cfg.Count lead requests
func (g *Generator) Leads(cfg LeadGeneratorConfig) []models.CreateLeadRequest {
	out := make([]models.CreateLeadRequest, cfg.Count)
	for i := range out {
		out[i] = g.Lead(cfg)
	}
	return out
}

// Signup creates a signup request for role with a valid password
func (g *Generator) Signup(role auth.Role, team string) models.SignupRequest {
	first, last := g.faker.FirstName(), g.faker.LastName()
	return models.SignupRequest{
		Name:     first + " " + last,
		Email:    strings.ToLower(fmt.Sprintf("%s.%s.%s@leadcrm.test", first, last, g.faker.DigitN(3))),
		Password: g.faker.Password(true, true, true, false, false, 12),
		Role:     string(role),
		Team:     team,
	}
}

// Disposition returns a random recordable disposition
func (g *Generator) Disposition() models.Disposition {
	return models.Dispositions[g.faker.Number(0, len(models.Dispositions)-1)]
}

package e2e

import (
	"github.com/cucumber/godog"

	"storefront/e2e/steps/catalog"
	"storefront/e2e/steps/common"
	"storefront/e2e/steps/contact"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (status and envelope assertions)
	common.RegisterSteps(ctx, tc)

	// Register catalog browsing steps
	catalog.RegisterSteps(ctx, tc)

	// Register contact form steps
	contact.RegisterSteps(ctx, tc)
}

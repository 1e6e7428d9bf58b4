package contact

import (
	"context"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	POSTRaw(path, body string) error
}

// RegisterSteps registers contact form step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &contactSteps{tc: tc}

	ctx.Step(`^"([^"]*)" <([^>]*)> sends the message "([^"]*)"$`, steps.sendMessage)
	ctx.Step(`^an anonymous visitor <([^>]*)> sends the message "([^"]*)"$`, steps.sendWithoutName)
	ctx.Step(`^I POST the raw body '([^']*)' to "([^"]*)"$`, steps.postRaw)
}

type contactSteps struct {
	tc TestContext
}

func (s *contactSteps) sendMessage(ctx context.Context, name, email, message string) error {
	return s.tc.POST("/api/contact", map[string]string{
		"name":    name,
		"email":   email,
		"message": message,
	})
}

func (s *contactSteps) sendWithoutName(ctx context.Context, email, message string) error {
	return s.tc.POST("/api/contact", map[string]string{
		"email":   email,
		"message": message,
	})
}

func (s *contactSteps) postRaw(ctx context.Context, body, path string) error {
	return s.tc.POSTRaw(path, body)
}

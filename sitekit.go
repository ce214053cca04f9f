// Package sitekit is the behavior layer of the Reshine International site
// rendered for terminals: declarative form definitions, the submission
// lifecycle with mail delegation, and the testimonial carousel, plus the
// rendering surfaces under pkg/renderers.
package sitekit

import (
	"context"
	"fmt"

	"github.com/reshine-intl/sitekit/pkg/content"
	"github.com/reshine-intl/sitekit/pkg/formdef"
	"github.com/reshine-intl/sitekit/pkg/forms"
	"github.com/reshine-intl/sitekit/pkg/mailer"
)

// Site aliases the content tree exported via the root package for
// convenience.
type Site = content.Site

// Definition is the fixed shape of one form.
type Definition = forms.Definition

// Controller drives one form through the submission lifecycle.
type Controller = forms.Controller

// Outcome is the result of a delivery step.
type Outcome = forms.Outcome

// Message is a composed mail message.
type Message = mailer.Message

// LoadSite parses the embedded site content.
func LoadSite() (*Site, error) {
	return content.Load()
}

// BuildControllers loads the embedded form definitions and wires one
// controller per form, addressed to the site's contact mailbox. It is the
// simplest entry point for callers assembling a rendering surface.
func BuildControllers(ctx context.Context, site *Site, options ...forms.ControllerOption) ([]*Controller, error) {
	defs, err := formdef.New().Load(ctx)
	if err != nil {
		return nil, err
	}

	controllers := make([]*Controller, 0, len(defs))
	for _, def := range defs {
		composer, err := mailer.NewComposer(site.Company.Email, def.SubjectTemplate, def.BodyTemplate)
		if err != nil {
			return nil, fmt.Errorf("sitekit: build composer for %s: %w", def.ID, err)
		}
		ctrl, err := forms.NewController(def, composer, options...)
		if err != nil {
			return nil, fmt.Errorf("sitekit: build controller for %s: %w", def.ID, err)
		}
		controllers = append(controllers, ctrl)
	}
	return controllers, nil
}

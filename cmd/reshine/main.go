package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/reshine-intl/sitekit/pkg/content"
	"github.com/reshine-intl/sitekit/pkg/formdef"
	"github.com/reshine-intl/sitekit/pkg/forms"
	"github.com/reshine-intl/sitekit/pkg/mailer"
	"github.com/reshine-intl/sitekit/pkg/renderers/prompt"
	"github.com/reshine-intl/sitekit/pkg/renderers/tui"
)

func main() {
	renderer := flag.String("renderer", "tui", "rendering surface: tui or prompt")
	formID := flag.String("form", "contact", "form to run in prompt mode")
	verbose := flag.Bool("verbose", false, "enable debug logging to stderr")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("build logger: %v", err)
		}
		logger = l
		defer logger.Sync()
	}

	ctx := context.Background()

	site, err := content.Load()
	if err != nil {
		log.Fatalf("load site content: %v", err)
	}

	defs, err := formdef.New(formdef.WithLogger(logger)).Load(ctx)
	if err != nil {
		log.Fatalf("load form definitions: %v", err)
	}

	controllers := make([]*forms.Controller, 0, len(defs))
	for _, def := range defs {
		composer, err := mailer.NewComposer(site.Company.Email, def.SubjectTemplate, def.BodyTemplate)
		if err != nil {
			log.Fatalf("build composer for %s: %v", def.ID, err)
		}
		ctrl, err := forms.NewController(def, composer, forms.WithControllerLogger(logger))
		if err != nil {
			log.Fatalf("build controller for %s: %v", def.ID, err)
		}
		controllers = append(controllers, ctrl)
	}

	switch *renderer {
	case "tui":
		model, err := tui.NewModel(site, controllers, tui.WithModelLogger(logger))
		if err != nil {
			log.Fatalf("build application: %v", err)
		}
		if err := tui.Run(model); err != nil {
			log.Fatalf("run application: %v", err)
		}

	case "prompt":
		ctrl := findController(controllers, *formID)
		if ctrl == nil {
			log.Fatalf("unknown form %q", *formID)
		}
		runner := prompt.NewRunner(prompt.WithLogger(logger))
		if err := runner.Run(ctx, ctrl); err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				os.Exit(130)
			}
			log.Fatalf("run form: %v", err)
		}

	default:
		log.Fatalf("unknown renderer %q (want tui or prompt)", *renderer)
	}
}

func findController(controllers []*forms.Controller, id string) *forms.Controller {
	for _, ctrl := range controllers {
		if ctrl.Definition().ID == id {
			return ctrl
		}
	}
	return nil
}

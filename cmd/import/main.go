package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/polyblog/polyblog"
	"github.com/polyblog/polyblog/content"
	"github.com/polyblog/polyblog/internal/importer"
	"github.com/polyblog/polyblog/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("import: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	owner := fs.String("owner", "", "Owner ID recorded on imported content")
	defaultLanguage := fs.String("default-language", "en", "Language assumed when a document declares none")
	publish := fs.Bool("publish", false, "Mark imported content as published")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ownerID := uuid.Nil
	if *owner != "" {
		parsed, err := uuid.Parse(*owner)
		if err != nil {
			return fmt.Errorf("parse owner: %w", err)
		}
		ownerID = parsed
	}

	cfg, err := polyblog.LoadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()

	module, err := polyblog.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	imp := importer.New(module.Contents(), importer.Config{
		OwnerID:         ownerID,
		DefaultLanguage: content.Language(*defaultLanguage),
		Publish:         *publish,
	}, module.LoggerProvider())

	report, err := imp.Import(ctx, os.DirFS(*contentDir))
	if err != nil {
		return err
	}

	logger := logging.ModuleLogger(module.LoggerProvider(), "polyblog.import")
	logger.Info("import complete",
		"contents", report.ContentsCreated,
		"translations", report.TranslationsCreated,
		"skipped", report.Skipped,
	)
	return nil
}

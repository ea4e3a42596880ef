package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"

	"github.com/MKhiriev/halsync/internal/client"
	"github.com/MKhiriev/halsync/internal/config"
	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/internal/serializer"
	"github.com/MKhiriev/halsync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// Item is the demo entity kind: a generic titled repository item.
type Item struct {
	UUID        string
	Title       string
	Description string
	Self        string
}

func (i *Item) Kind() string        { return "item" }
func (i *Item) Identifier() string  { return i.UUID }
func (i *Item) SelfAddress() string { return i.Self }

func main() {
	printBuildInfo()

	log := logger.NewLogger("halsync-client")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	registry := serializer.NewRegistry()
	registry.MustRegister(serializer.Schema{
		Kind: "item",
		Type: reflect.TypeOf(Item{}),
		Fields: []serializer.FieldMapping{
			{Attr: "UUID", Wire: "uuid"},
			{Attr: "Title", Wire: "title"},
			{Attr: "Description", Wire: "description"},
		},
		AddressAttr: "Self",
	})

	app, err := client.NewApp(cfg, registry, stderrNotifier{}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}
	app.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	items := app.DataService("item", cfg.Adapter.BaseURL+"/api/core/items")
	for rd := range items.FindAll(ctx, models.FindAllOptions{CurrentPage: 1, ElementsPerPage: 20}) {
		switch {
		case rd.HasFailed:
			log.Error().Str("error", rd.ErrorMessage).Msg("items request failed")
		case rd.HasSucceeded:
			for _, element := range rd.Payload.Elements {
				item := element.(*Item)
				fmt.Printf("%s\t%s\n", item.UUID, item.Title)
			}
		}
	}

	<-ctx.Done()

	if err = app.Shutdown(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("client shutdown error")
	}
}

// stderrNotifier is the demo notification collaborator.
type stderrNotifier struct{}

func (stderrNotifier) NotifyError(message string) {
	fmt.Fprintln(os.Stderr, "error:", message)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

// import_menu carga el menú desde un CSV usando la misma persistencia que la API.
//
// Uso: go run ./cmd/import_menu -file menu.csv [-latin1] [-comma ';']
// Columnas: category, section, name, price, description, mod1, vars1, mod2, vars2, mod3, vars3.
// Las variaciones van separadas por coma dentro de su columna ("Small, Medium, Large").
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/restaurante-pos/internal/application/catalog"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/csvimport"
	"github.com/jhoicas/restaurante-pos/internal/infrastructure/storage"
	"github.com/jhoicas/restaurante-pos/pkg/config"
	"github.com/jhoicas/restaurante-pos/pkg/logger"
)

func main() {
	file := flag.String("file", "menu.csv", "ruta del CSV")
	latin1 := flag.Bool("latin1", false, "el archivo está en ISO-8859-1")
	comma := flag.String("comma", ",", "separador de columnas")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "import_menu"})

	sep, size := utf8.DecodeRuneInString(*comma)
	if size == 0 || size != len(*comma) {
		log.Fatal().Str("comma", *comma).Msg("el separador debe ser un solo carácter")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := csvimport.Read(f, csvimport.Options{Latin1: *latin1, Comma: sep})
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("persistencia")
	}
	defer backend.Close()

	uc := catalog.NewMenuItemUseCase(backend.Store, backend.TxRunner, catalog.NewModifierReconciler())
	report := uc.Import(ctx, rows)

	for _, r := range report.Rows {
		if r.Error != "" {
			log.Warn().Int("line", r.Line).Str("item", r.Name).Str("error", r.Error).Msg("fila rechazada")
			continue
		}
		log.Debug().Int("line", r.Line).Str("item", r.Name).Bool("created", r.Created).Msg("fila aplicada")
	}
	log.Info().
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("failed", report.Failed).
		Msg("importación terminada")

	if report.Failed > 0 {
		backend.Close()
		os.Exit(2)
	}
}

package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/barriolab/vecino/pkg/cli"
)

func TestRun_ValidateCommand_ValidCatalog(t *testing.T) {
	tmpDir := t.TempDir()
	catalogPath := filepath.Join(tmpDir, "comercios.json")
	content := `[
		{
			"id": "pizzeria-tano",
			"nombre": "Lo de Tano",
			"tipo": "business",
			"zona": "City Bell",
			"categoria": "pizzería",
			"direccion": "Cantilo 450",
			"horarios": "Lun a Dom 11:00 a 23:00",
			"tags": ["pizza", "empanadas"],
			"lat": -34.9205,
			"lon": -58.045
		},
		{
			"id": "gasista-raul",
			"nombre": "Raúl Gasista",
			"tipo": "service",
			"zona": "Gonnet",
			"rubro": "gasista",
			"contacto": "221-555-1234"
		}
	]`
	err := os.WriteFile(catalogPath, []byte(content), 0o600)
	gt.NoError(t, err).Required()

	err = cli.Run(context.Background(), []string{"vecino", "validate", "--catalog-path", catalogPath}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_MissingCatalog(t *testing.T) {
	tmpDir := t.TempDir()
	catalogPath := filepath.Join(tmpDir, "does-not-exist.json")

	err := cli.Run(context.Background(), []string{"vecino", "validate", "--catalog-path", catalogPath}, "test")
	gt.Error(t, err)
}

func TestRun_ValidateCommand_DuplicateID(t *testing.T) {
	tmpDir := t.TempDir()
	catalogPath := filepath.Join(tmpDir, "comercios.json")
	content := `[
		{"id": "dup", "nombre": "Uno", "tipo": "business", "zona": "City Bell"},
		{"id": "dup", "nombre": "Dos", "tipo": "business", "zona": "Gonnet"}
	]`
	err := os.WriteFile(catalogPath, []byte(content), 0o600)
	gt.NoError(t, err).Required()

	err = cli.Run(context.Background(), []string{"vecino", "validate", "--catalog-path", catalogPath}, "test")
	gt.Error(t, err)
}

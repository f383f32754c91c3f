package catalog

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestCatalogFile writes content to a temporary catalog file,
// gzipping it when the name ends in .gz.
func createTestCatalogFile(t *testing.T, filename, content string) string {
	t.Helper()
	filePath := filepath.Join(t.TempDir(), filename)

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	if filepath.Ext(filename) != ".gz" {
		_, err = file.WriteString(content)
		require.NoError(t, err)
		return filePath
	}

	gzipWriter := gzip.NewWriter(file)
	_, err = gzipWriter.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return filePath
}

const sampleCSV = "name,price,category\n" +
	"Casque Audio,199.99,Électronique\n" +
	"Clavier,49.00,Informatique\n" +
	"Roman,12.50,Livres\n"

func TestFileLoader_Load_CSV(t *testing.T) {
	loader := NewFileLoader(Options{}, zerolog.Nop())
	filePath := createTestCatalogFile(t, "catalog.csv", sampleCSV)

	entries, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Casque Audio", entries[0].Name)
	assert.Equal(t, "Roman", entries[2].Name)
}

func TestFileLoader_Load_Gzipped(t *testing.T) {
	loader := NewFileLoader(Options{}, zerolog.Nop())
	filePath := createTestCatalogFile(t, "catalog.csv.gz", sampleCSV)

	entries, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFileLoader_Load_YAML(t *testing.T) {
	loader := NewFileLoader(Options{}, zerolog.Nop())
	filePath := createTestCatalogFile(t, "catalog.yml", "- {name: Lampe, price: 29.9, category: Maison}\n")

	entries, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Line: 1, Name: "Lampe", Price: "29.9", Category: "Maison"}, entries[0])
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(Options{}, zerolog.Nop())

	entries, err := loader.Load(context.Background(), "/nonexistent/catalog.csv")

	assert.Error(t, err)
	assert.Nil(t, entries)
	assert.Contains(t, err.Error(), "failed to open catalog file")
}

func TestFileLoader_Load_UnsupportedFormat(t *testing.T) {
	loader := NewFileLoader(Options{}, zerolog.Nop())
	filePath := createTestCatalogFile(t, "catalog.xml", "<produits/>")

	_, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported catalog format")
}

func TestFileLoader_Load_ContextCancelled(t *testing.T) {
	loader := NewFileLoader(Options{}, zerolog.Nop())
	filePath := createTestCatalogFile(t, "catalog.csv", sampleCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, filePath)
	assert.ErrorIs(t, err, context.Canceled)
}

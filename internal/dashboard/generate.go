package dashboard

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.json.tmpl
var templates embed.FS

// DatasourceEnv names the variable holding the Grafana datasource UID of the
// GreptimeDB instance.
const DatasourceEnv = "GREPTIMEDB_DATASOURCE_UID"

// Options parameterize the rendered dashboards.
type Options struct {
	// DatasourceUID falls back to $GREPTIMEDB_DATASOURCE_UID.
	DatasourceUID string
	Database      string
	Table         string
}

func (o Options) withDefaults() Options {
	if o.Database == "" {
		o.Database = "public"
	}
	if o.Table == "" {
		o.Table = "circuit_health"
	}
	return o
}

// Render parses the embedded dashboard templates and writes the rendered
// dashboards to outDir. It returns the written paths.
func Render(outDir string, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	funcMap := template.FuncMap{
		"datasource": func() (string, error) {
			if opts.DatasourceUID != "" {
				return opts.DatasourceUID, nil
			}
			v := os.Getenv(DatasourceEnv)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", DatasourceEnv)
			}
			return v, nil
		},
	}

	names, err := templates.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for _, entry := range names {
		t, err := template.New(entry.Name()).Funcs(funcMap).ParseFS(templates, "templates/"+entry.Name())
		if err != nil {
			return nil, err
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(entry.Name(), ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return nil, err
		}
		if err := t.Execute(f, opts); err != nil {
			f.Close()
			return nil, fmt.Errorf("render %s: %w", entry.Name(), err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		written = append(written, outPath)
	}
	return written, nil
}

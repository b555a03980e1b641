package testcases

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/stretchr/testify/assert"

	"github.com/openfoodfacts/api-contract-tests/framework"
)

// volatileProductFields are the product fields whose values change on every
// edit or run (timestamps, revision counters) and must not fail a diff.
var volatileProductFields = map[string]bool{
	"created_t":       true,
	"completed_t":     true,
	"last_modified_t": true,
	"last_updated_t":  true,
	"last_image_t":    true,
	"uploaded_t":      true,
	"rev":             true,
	"sortkey":         true,
}

const volatilePlaceholder = "--ignore--"

// normalizeVolatileFields rewrites volatile fields inside the "product" or
// "products" substructures of a parsed response, recursively, so the result
// can be compared against a stored expected file.
func normalizeVolatileFields(parsed interface{}) {
	root, ok := parsed.(map[string]interface{})
	if !ok {
		return
	}
	for _, key := range []string{"product", "products"} {
		switch sub := root[key].(type) {
		case map[string]interface{}:
			scrubProduct(sub)
		case []interface{}:
			for _, item := range sub {
				if m, ok := item.(map[string]interface{}); ok {
					scrubProduct(m)
				}
			}
		}
	}
}

func scrubProduct(m map[string]interface{}) {
	for key, value := range m {
		if volatileProductFields[key] {
			m[key] = volatilePlaceholder
			continue
		}
		switch nested := value.(type) {
		case map[string]interface{}:
			scrubProduct(nested)
		case []interface{}:
			for _, item := range nested {
				if inner, ok := item.(map[string]interface{}); ok {
					scrubProduct(inner)
				}
			}
		}
	}
}

// compareWithExpected checks the actual bytes against the stored expected
// result for this case, creating or rewriting the file in update mode. A
// missing file outside update mode is a soft failure like any other diff.
func (r *Runner) compareWithExpected(t *framework.Context, filename string, actual []byte) {
	path := filepath.Join(r.ResultsDir, filename)

	if r.UpdateResults {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Errorf("could not create results directory for %s: %s", filename, err)
			return
		}
		if err := os.WriteFile(path, actual, 0644); err != nil {
			t.Errorf("could not update expected result %s: %s", filename, err)
		}
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("no expected result file %s (run with -update to create it): %s", filename, err)
		return
	}

	if strings.HasSuffix(filename, ".json") {
		assert.JSONEq(t, string(expected), string(actual),
			"response does not match expected result %s", filename)
	} else {
		assert.Equal(t, string(expected), string(actual),
			"response does not match expected result %s", filename)
	}
}

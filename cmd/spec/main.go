package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"github.com/ghodss/yaml"
	apimodel "github.com/ofte-auth/ponto/api/model"
	"github.com/ofte-auth/ponto/internal/model"
)

// Used to generate openapi yaml file for components. Responses that echo raw
// records API rows have no fixed shape and are left out.
func main() {
	components := openapi3.NewComponents()
	components.Schemas = make(map[string]*openapi3.SchemaRef)

	values := []struct {
		name  string
		value interface{}
	}{
		{"v1.RFIDRequest", &apimodel.RFIDRequest{}},
		{"v1.AccessRequest", &apimodel.AccessRequest{}},
		{"v1.AccessResponse", &apimodel.AccessResponse{}},
		{"v1.ErrorResponse", &apimodel.ErrorResponse{}},
		{"v1.AccessEvent", &model.AccessEvent{}},
		{"v1.Log", &model.AuditEntry{}},
	}
	for _, v := range values {
		schema, _, err := openapi3gen.NewSchemaRefForValue(v.value)
		if err != nil {
			panic(err)
		}
		components.Schemas[v.name] = schema
	}

	b := &bytes.Buffer{}
	err := json.NewEncoder(b).Encode(components.Schemas)
	if err != nil {
		panic(err)
	}

	y, err := yaml.JSONToYAML(b.Bytes())
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile("cmd/spec/schemas.yaml", y, 0644)
	if err != nil {
		panic(err)
	}
	fmt.Println("wrote schemas.yaml")
}

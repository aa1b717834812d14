// Package swagger embeds the OpenAPI definition of the REST API.
package swagger

import (
	_ "embed"
)

//go:embed swagger.yaml
var Spec []byte

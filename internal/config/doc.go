// Package config loads creditlens configuration.
//
// # Configuration Sources
//
// Configuration is layered in the following order, later layers winning:
//
//  1. Default values (Default)
//  2. A YAML file named by CREDITLENS_CONFIG, or ./config.yaml
//  3. Environment variables prefixed CREDITLENS_
//
// # Environment Variables
//
// Nested sections join their names with underscores:
//
//	CREDITLENS_SERVER_PORT=8080
//	CREDITLENS_DATA_SOURCE="data/Case Open.xlsx"
//	CREDITLENS_ANALYSIS_THRESHOLD_MULTIPLIER=1.25
//	CREDITLENS_ANALYSIS_UNDEFINED_POLICY=exclude
//	CREDITLENS_ANALYSIS_ATTRIBUTES=estado,setor
//	CREDITLENS_LOGGING_LEVEL=debug
//
// # YAML File
//
//	data:
//	  source: data/Case Open.xlsx
//	  sheet: Base
//	analysis:
//	  threshold_multiplier: 1.1
//	  undefined_policy: zero
//	  attributes: [estado, setor, regiao]
//
// Unknown YAML keys are rejected. The loaded Config is validated with
// go-playground/validator struct tags; failures are CONFIG AppErrors naming
// the offending fields.
package config

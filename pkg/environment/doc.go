// Package environment carries the deployment environment (development,
// staging, production) through request contexts and log records.
package environment

// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle: load configuration,
// resolve targets into a plan of rule edges and hand that plan to an
// executor. It is decoupled from any specific entrypoint like a CLI.
package app

// cmd/folio/main.go
//
// Folio – command entry point.
//
//   folio serve            run the portfolio site
//   folio config           print the effective configuration (secrets redacted)
//   folio archive migrate  create the contact archive table
//   folio archive recent   list recently archived contact messages
package main

func main() {
	Execute()
}

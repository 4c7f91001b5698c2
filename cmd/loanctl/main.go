// Command loanctl runs maintenance tasks against the back office database:
// schema migrations, reference data seeding and staff account management.
package main

func main() {
	Execute()
}

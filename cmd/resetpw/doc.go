// Command resetpw provides a CLI utility for account password management
// in the photo manager application.
//
// Usage:
//
//	resetpw <command>
//
// Commands:
//
//	reset <username>  Reset the named user's password. All of that
//	                  user's sessions are invalidated.
//
//	status            Display how many accounts exist. If none do,
//	                  accounts are created through the register API.
//
// Environment:
//
//	DATABASE_DIR - Path to database directory (default: /database)
package main

// Package cli implements the interactive command-line client for the files
// manager.
//
// The App prompts for credentials, keeps the session token inside the API
// client and exposes file commands through a small REPL:
//
//	register | login | logout | whoami
//	mkdir <name> [parentId]
//	upload [-p parentId] [-public] <path>
//	ls [-page n] [parentId]
//	info <id>
//	publish <id> | unpublish <id>
//	download [-size 100|250|500] [-o dest] <id>
//	exit | quit
//
// A background watcher polls /status and switches the prompt between online
// and offline modes.
package cli

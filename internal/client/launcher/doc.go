// Package launcher starts a Steam client session for one account.
//
// Launching terminates any running Steam client first, waits for it to
// exit and then starts the executable detached with "-login user pass".
// Process discovery goes through gopsutil so it works the same on every
// platform; install discovery reads the registry on Windows and probes
// well-known paths elsewhere.
package launcher

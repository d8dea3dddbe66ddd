// backup-collector keeps monthly and yearly checkpoints of timestamped
// backup snapshots.
//
// It walks <root>/<server>/<source>/ for files named
// <YYYY-MM-DD--HH-MM-SS>_<tag>, keeps the latest full backup of every
// finished month and year, and copies them into <root>/<server>/monthly and
// <root>/<server>/yearly.
//
// Usage:
//
//	# one pass over the configured root
//	backup-collector
//
//	# show what would be retained
//	backup-collector plan
//
//	# stay running, collecting on schedule and on new snapshots
//	backup-collector serve --config /etc/backup-collector/config.yaml
package main

func main() {
	Execute()
}

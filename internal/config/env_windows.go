//go:build windows

package config

// windowsEnv maps the unix names used in config files to their Windows
// equivalents, so one config.yaml works on both.
var windowsEnv = map[string]string{
	"HOSTNAME": "COMPUTERNAME",
	"USER":     "USERNAME",
	"HOME":     "USERPROFILE",
	"TMPDIR":   "TEMP",
}

func mapEnvKey(key string) string {
	if mapped, ok := windowsEnv[key]; ok {
		return mapped
	}
	return key
}

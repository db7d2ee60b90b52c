// tags.go builds the default tags context attached to every event:
// SDK, runtime and platform information.

package gatey

import (
	"os"
	"runtime"
)

const (
	// SDKName identifies this SDK to the Gatey API.
	SDKName = "gatey.go.official"

	// SDKVersion is the version of this SDK.
	SDKVersion = "0.1.0"
)

// defaultTags assembles the default tags context. Each information
// group can be excluded via client options.
func defaultTags(sdkInfo, runtimeInfo, platformInfo bool) map[string]string {
	tags := make(map[string]string)
	if sdkInfo {
		tags["sdk.name"] = SDKName
		tags["sdk.version"] = SDKVersion
	}
	if runtimeInfo {
		tags["runtime.name"] = "Go"
		tags["runtime.version"] = runtime.Version()
	}
	if platformInfo {
		tags["platform.os"] = runtime.GOOS
		tags["platform.arch"] = runtime.GOARCH
		if hostname, err := os.Hostname(); err == nil {
			tags["platform.node"] = hostname
		}
	}
	return tags
}

// mergeTags overlays event tags on top of the base tags. Event tags win
// on conflict. The inputs are not modified.
func mergeTags(base, event map[string]string) map[string]string {
	if len(base) == 0 && len(event) == 0 {
		return nil
	}
	merged := make(map[string]string, len(base)+len(event))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range event {
		merged[k] = v
	}
	return merged
}

package events

import (
	"context"
	"encoding/json"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

func logRuntimeNotice(ctx context.Context, n Notice) {
	data, err := json.Marshal(n)
	if err != nil {
		runtime.LogError(ctx, "events: failed to marshal notice: "+err.Error())
		return
	}

	payload := string(data)

	switch n.Type {
	case NoticeError:
		runtime.LogError(ctx, payload)
	case NoticeWarn:
		runtime.LogWarning(ctx, payload)
	default:
		runtime.LogInfo(ctx, payload)
	}
}

package capture

// pushEventName is the event recorded for a received push notification.
const pushEventName = "$campaign_received"

// TrackPushNotification records a push-notification interaction from its
// remote payload. The payload's "mp" entry carries the campaign ID ("c")
// and message ID ("m"); payloads without it are ignored.
func (c *Client) TrackPushNotification(userInfo map[string]any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	mp, ok := userInfo["mp"].(map[string]any)
	if !ok {
		return nil
	}

	props := make(map[string]any, 2)
	if campaign, ok := mp["c"]; ok {
		props["campaign_id"] = campaign
	}
	if message, ok := mp["m"]; ok {
		props["message_id"] = message
	}
	if len(props) == 0 {
		return nil
	}

	return c.TrackWithProperties(pushEventName, props)
}

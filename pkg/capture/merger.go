package capture

import (
	"runtime"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/property"
)

// Default property keys stamped onto every event.
const (
	propTime       = "time"
	propDistinctID = "distinct_id"
	propLib        = "$lib"
	propLibVersion = "$lib_version"
	propOS         = "$os"
	propSessionID  = "$session_id"
	propNameTag    = "mp_name_tag"
	propDuration   = "$duration"
)

// buildProperties merges the property layers for one event, lowest to
// highest precedence: defaults < super properties < timed duration <
// explicit properties. Later layers overwrite same-named keys. The
// result is the immutable snapshot carried by the enqueued event.
//
// Caller must hold c.mu.
func (c *Client) buildProperties(eventName string, explicit *property.Properties, now time.Time) *property.Properties {
	props := c.defaultProperties(now)
	props.Merge(c.superProps)

	if eventName != "" {
		if start, ok := c.timed[eventName]; ok {
			delete(c.timed, eventName)
			duration := now.Sub(start).Seconds()
			if duration < 0 {
				duration = 0
			}
			props.Set(propDuration, property.Number(duration))
		}
	}

	props.Merge(explicit)
	return props
}

// defaultProperties builds the auto-generated layer: timestamp, library
// and OS identification, session ID, and identity attribution.
func (c *Client) defaultProperties(now time.Time) *property.Properties {
	props := property.NewProperties()
	props.Set(propTime, property.Time(now))
	props.Set(propDistinctID, property.String(c.identity.DistinctID()))
	props.Set(propLib, property.String("go"))
	props.Set(propLibVersion, property.String(libVersion))
	props.Set(propOS, property.String(runtime.GOOS))
	props.Set(propSessionID, property.String(c.sessionID))
	if tag := c.identity.NameTag(); tag != "" {
		props.Set(propNameTag, property.String(tag))
	}
	return props
}

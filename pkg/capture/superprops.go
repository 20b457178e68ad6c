package capture

import (
	"github.com/randalmurphal/capture/pkg/capture/property"
)

// RegisterSuperProperties registers properties merged into every future
// event, overwriting ones already set. Registration is not retroactive:
// already-enqueued events keep the snapshot they were merged with.
func (c *Client) RegisterSuperProperties(properties map[string]any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	props, err := property.FromMap(properties)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.superProps.Merge(props)
	return nil
}

// RegisterSuperPropertiesOnce registers super properties without
// overwriting ones that have already been set.
func (c *Client) RegisterSuperPropertiesOnce(properties map[string]any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	props, err := property.FromMap(properties)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range props.Keys() {
		val, _ := props.Get(key)
		c.superProps.SetOnce(key, val)
	}
	return nil
}

// RegisterSuperPropertiesOnceWithDefault registers super properties
// without overwriting ones already set, unless the existing value equals
// defaultValue. The whole property set is applied atomically with
// respect to concurrent registrations.
func (c *Client) RegisterSuperPropertiesOnceWithDefault(properties map[string]any, defaultValue any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	props, err := property.FromMap(properties)
	if err != nil {
		return err
	}
	sentinel, err := property.FromAny(defaultValue)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range props.Keys() {
		val, _ := props.Get(key)
		if existing, ok := c.superProps.Get(key); ok && !existing.Equal(sentinel) {
			continue
		}
		c.superProps.Set(key, val)
	}
	return nil
}

// UnregisterSuperProperty removes a previously registered super
// property. Unknown names are ignored.
func (c *Client) UnregisterSuperProperty(name string) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.superProps.Delete(name)
	return nil
}

// ClearSuperProperties removes all currently set super properties.
func (c *Client) ClearSuperProperties() error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.superProps.Clear()
	return nil
}

// CurrentSuperProperties returns a copy of the currently set super
// properties.
func (c *Client) CurrentSuperProperties() *property.Properties {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.superProps.Clone()
}

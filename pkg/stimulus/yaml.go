package stimulus

import "gopkg.in/yaml.v3"

// UnmarshalYAML fills in the default radius and fear amount for keys a level
// file leaves out.
func (t *Trigger) UnmarshalYAML(value *yaml.Node) error {
	type plain Trigger
	p := plain(*NewTrigger("", 0))
	if err := value.Decode(&p); err != nil {
		return err
	}
	*t = Trigger(p)
	return nil
}

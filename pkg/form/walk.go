package form

// Errors collects the non-empty error messages of c and every descendant
// into a flat list, depth first, parent before children in registration
// order.
func Errors(c AnyControl) []string {
	var out []string
	collectErrors(c, &out)
	return out
}

func collectErrors(c AnyControl, out *[]string) {
	if msg := c.Error(); msg != "" {
		*out = append(*out, msg)
	}
	for _, e := range c.children() {
		collectErrors(e.ctrl, out)
	}
}

// ErrorMap flattens the non-empty errors of c's subtree into a map from
// dotted path to message. The root's own error is keyed under "". Array
// positions appear as indices: "fruits.0".
func ErrorMap(c AnyControl) map[string]string {
	out := make(map[string]string)
	addErrors(c, "", out)
	return out
}

func addErrors(c AnyControl, path string, out map[string]string) {
	if msg := c.Error(); msg != "" {
		out[path] = msg
	}
	for _, e := range c.children() {
		childPath := e.key
		if path != "" {
			childPath = path + "." + e.key
		}
		addErrors(e.ctrl, childPath, out)
	}
}

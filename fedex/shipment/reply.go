package shipment

import "strings"

// ReplyKey is the RawReply key of a carrier ProcessShipmentReply
const ReplyKey = "process_shipment_reply"

// RawReply is a parsed carrier reply.
// Values are map[string]interface{}, []interface{} or scalars.
type RawReply map[string]interface{}

// Details is the process_shipment_reply mapping of a successful reply
type Details map[string]interface{}

// Severity returns highest_severity
func (d Details) Severity() string {
	s, _ := d["highest_severity"].(string)
	return s
}

// TrackingNumbers collects
// completed_shipment_detail.completed_package_details[].tracking_ids[].tracking_number
func (d Details) TrackingNumbers() []string {
	cpd, err := lookup(map[string]interface{}(d), "", "completed_shipment_detail", "completed_package_details")
	if err != nil {
		return nil
	}
	var res []string
	for _, pkg := range asList(cpd) {
		ids, err := lookup(pkg, "", "tracking_ids")
		if err != nil {
			continue
		}
		for _, id := range asList(ids) {
			n, err := lookup(id, "", "tracking_number")
			if err != nil {
				continue
			}
			if s, ok := n.(string); ok && s != "" {
				res = append(res, s)
			}
		}
	}
	return res
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case RawReply:
		return m, true
	case Details:
		return m, true
	}
	return nil, false
}

// asList normalizes single value to list of one
func asList(v interface{}) []interface{} {
	switch l := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return l
	case []map[string]interface{}:
		res := make([]interface{}, 0, len(l))
		for _, m := range l {
			res = append(res, m)
		}
		return res
	case []string:
		res := make([]interface{}, 0, len(l))
		for _, s := range l {
			res = append(res, s)
		}
		return res
	}
	return []interface{}{v}
}

// lookup walks keys from v, base is the path of v used in errors
func lookup(v interface{}, base string, keys ...string) (interface{}, error) {
	path := base
	for _, k := range keys {
		if path == "" {
			path = k
		} else {
			path = path + "." + k
		}
		m, ok := asMap(v)
		if !ok {
			return nil, &PathError{Path: path, Reason: "parent is not a mapping"}
		}
		if v, ok = m[k]; !ok || v == nil {
			return nil, &PathError{Path: path, Reason: "missing"}
		}
	}
	return v, nil
}

func lookupString(v interface{}, base string, keys ...string) (string, error) {
	s, err := lookup(v, base, keys...)
	if err != nil {
		return "", err
	}
	path := strings.Join(append([]string{base}, keys...), ".")
	str, ok := s.(string)
	if !ok {
		return "", &PathError{Path: strings.TrimPrefix(path, "."), Reason: "not a string"}
	}
	if str == "" {
		return "", &PathError{Path: strings.TrimPrefix(path, "."), Reason: "empty"}
	}
	return str, nil
}

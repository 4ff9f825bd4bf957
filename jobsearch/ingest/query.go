package ingest

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
)

// AddFilterParam appends one filters_json value to a board query. Lists
// become repeated keys, numbers keep their integer form when whole, nil is
// dropped.
func AddFilterParam(values url.Values, key string, value any) {
	switch v := value.(type) {
	case nil:
	case string:
		values.Add(key, v)
	case bool:
		values.Add(key, strconv.FormatBool(v))
	case int:
		values.Add(key, strconv.Itoa(v))
	case int64:
		values.Add(key, strconv.FormatInt(v, 10))
	case float64:
		if v == math.Trunc(v) {
			values.Add(key, strconv.FormatInt(int64(v), 10))
		} else {
			values.Add(key, strconv.FormatFloat(v, 'f', -1, 64))
		}
	case []any:
		for _, item := range v {
			AddFilterParam(values, key, item)
		}
	case []string:
		for _, item := range v {
			values.Add(key, item)
		}
	default:
		values.Add(key, fmt.Sprintf("%v", v))
	}
}

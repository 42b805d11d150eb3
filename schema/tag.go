package schema

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var tagPatterns = map[string]string{
	"alpha":       `^[a-zA-Z]+$`,
	"alphanum":    `^[a-zA-Z0-9]+$`,
	"numeric":     `^[-+]?[0-9]+(?:\.[0-9]+)?$`,
	"number":      `^[0-9]+$`,
	"ascii":       `^[\x00-\x7F]*$`,
	"e164":        `^\+[1-9]?[0-9]{7,14}$`,
	"hexadecimal": `^(0[xX])?[0-9a-fA-F]+$`,
	"lowercase":   `^[^A-Z]*$`,
	"uppercase":   `^[^a-z]*$`,
}

var tagFormats = map[string]string{
	"email":            FormatEmail,
	"url":              FormatURI,
	"uri":              FormatURI,
	"http_url":         FormatURI,
	"uuid":             FormatUUID,
	"uuid4":            FormatUUID,
	"uuid_rfc4122":     FormatUUID,
	"uuid4_rfc4122":    FormatUUID,
	"hostname":         FormatHostname,
	"hostname_rfc1123": FormatHostname,
	"fqdn":             FormatHostname,
	"ipv4":             FormatIPv4,
	"ip4_addr":         FormatIPv4,
	"ipv6":             FormatIPv6,
	"ip6_addr":         FormatIPv6,
}

// ApplyTag adds the constraints expressed by a validator tag. Rules that
// apply to collection elements (after "dive") and alternatives joined with
// "|" are not represented.
func ApplyTag(s *Schema, tag string) {
	for _, rule := range strings.Split(tag, ",") {
		rule = strings.TrimSpace(rule)
		if rule == "" || strings.Contains(rule, "|") {
			continue
		}
		if rule == "dive" || rule == "keys" {
			return
		}
		name, param, _ := strings.Cut(rule, "=")
		applyRule(s, name, param)
	}
}

func applyRule(s *Schema, name, param string) {
	if format, ok := tagFormats[name]; ok {
		s.Format = format
		return
	}
	if pattern, ok := tagPatterns[name]; ok {
		s.Pattern = pattern
		return
	}
	switch name {
	case "min", "gte":
		lowerBound(s, param, false)
	case "gt":
		lowerBound(s, param, true)
	case "max", "lte":
		upperBound(s, param, false)
	case "lt":
		upperBound(s, param, true)
	case "len":
		lowerBound(s, param, false)
		upperBound(s, param, false)
	case "oneof":
		s.Enum = s.Enum[:0]
		for _, item := range strings.Fields(param) {
			s.Enum = append(s.Enum, literal(s, strings.Trim(item, "'")))
		}
	case "datetime":
		if strings.Contains(param, "15") {
			s.Format = FormatDateTime
		} else {
			s.Format = FormatDate
		}
	case "startswith":
		s.Pattern = "^" + regexp.QuoteMeta(param)
	case "endswith":
		s.Pattern = regexp.QuoteMeta(param) + "$"
	case "contains":
		s.Pattern = regexp.QuoteMeta(param)
	}
}

func lowerBound(s *Schema, param string, exclusive bool) {
	switch s.Type {
	case TypeInteger, TypeNumber:
		n, ok := number(param)
		if !ok {
			return
		}
		if exclusive {
			s.ExclusiveMinimum = n
		} else {
			s.Minimum = n
		}
	default:
		n, err := strconv.ParseUint(param, 10, 64)
		if err != nil {
			return
		}
		if exclusive {
			n++
		}
		switch s.Type {
		case TypeObject:
			s.MinProperties = &n
		case TypeArray:
			s.MinItems = &n
		default:
			s.MinLength = &n
		}
	}
}

func upperBound(s *Schema, param string, exclusive bool) {
	switch s.Type {
	case TypeInteger, TypeNumber:
		n, ok := number(param)
		if !ok {
			return
		}
		if exclusive {
			s.ExclusiveMaximum = n
		} else {
			s.Maximum = n
		}
	default:
		n, err := strconv.ParseUint(param, 10, 64)
		if err != nil || (exclusive && n == 0) {
			return
		}
		if exclusive {
			n--
		}
		switch s.Type {
		case TypeObject:
			s.MaxProperties = &n
		case TypeArray:
			s.MaxItems = &n
		default:
			s.MaxLength = &n
		}
	}
}

// number normalizes a numeric tag parameter.
func number(param string) (json.Number, bool) {
	f, err := strconv.ParseFloat(param, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), true
}

func literal(s *Schema, item string) any {
	switch s.Type {
	case TypeInteger:
		if n, err := strconv.ParseInt(item, 10, 64); err == nil {
			return n
		}
	case TypeNumber:
		if f, err := strconv.ParseFloat(item, 64); err == nil {
			return f
		}
	}
	return item
}

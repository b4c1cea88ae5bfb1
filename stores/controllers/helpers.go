package controllers

import "strings"

func cleanQueryParam(param string) string {
	param = strings.TrimSpace(param)
	if param == "" || strings.ToLower(param) == "null" {
		return ""
	}
	return param
}

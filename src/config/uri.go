package config

import (
	"fmt"
	"net/url"
	"strings"
)

// MongoScheme is the scheme expected by the hosted cluster's connection-string parser.
const MongoScheme = "mongodb+srv"

// BuildMongoURI assembles mongodb+srv://<user>:<pass>@<host>/?appName=<app>.
// Only the credentials are escaped; host and app name are used verbatim.
func BuildMongoURI(user, password, host, appName string) string {
	return fmt.Sprintf("%s://%s:%s@%s/?appName=%s",
		MongoScheme, escapeCredential(user), escapeCredential(password), host, appName)
}

// escapeCredential escapes every reserved character. QueryEscape turns spaces
// into '+', which userinfo parsers read back as a literal plus, so spaces are
// rewritten to %20.
func escapeCredential(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

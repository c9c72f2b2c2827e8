package driver

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	loginEmailSelector    = `input[name="email"]`
	loginPasswordSelector = `input[name="password"]`
	messageBoxSelector    = `div[role="textbox"][class*="slateTextArea"]`
	messageItemSelector   = `li[id^="chat-messages-"]`
)

// messageScript collects id, visible text and outgoing links of a message
// list item. Links come from anchors first, then inline images.
const messageScript = `
function __journeyMessage(item) {
	if (!item) {
		return {id: "", text: "", links: []};
	}
	const links = [];
	item.querySelectorAll("a[href]").forEach((a) => links.push(a.href));
	item.querySelectorAll("img[src]").forEach((img) => links.push(img.src));
	return {id: item.id, text: item.innerText || "", links: links};
}
`

func latestMessageScript() string {
	return fmt.Sprintf(`(() => {
%s
	const items = document.querySelectorAll(%s);
	return __journeyMessage(items.length ? items[items.length - 1] : null);
})()`, messageScript, jsString(messageItemSelector))
}

func messageByIdScript(id string) string {
	return fmt.Sprintf(`(() => {
%s
	return __journeyMessage(document.getElementById(%s));
})()`, messageScript, jsString(id))
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

type loginStep int

const (
	loginWait loginStep = iota
	loginFill
	loginDone
)

type loginPage struct {
	Location   string `json:"location"`
	EmailField bool   `json:"emailField"`
}

func nextLoginStep(page loginPage) loginStep {
	switch {
	case page.Location != "" && !strings.Contains(page.Location, "/login"):
		return loginDone
	case page.EmailField:
		return loginFill
	default:
		return loginWait
	}
}

func loginPageScript() string {
	return fmt.Sprintf(`(() => ({location: window.location.href, emailField: !!document.querySelector(%s)}))()`, jsString(loginEmailSelector))
}

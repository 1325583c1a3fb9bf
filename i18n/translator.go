package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "variant" or "ref").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "parse_error":
			return "解析エラー"
		case "unknown_kind":
			return "未知のノード種別です"
		case "unknown_variant":
			return "未知のバリアントです"
		case "reference_not_found":
			return "参照が見つかりません"
		case "factory_failure":
			return "ノードを生成できませんでした"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "parse_error":
			return "parse error"
		case "unknown_kind":
			return "unknown node kind"
		case "unknown_variant":
			return "unknown variant"
		case "reference_not_found":
			return "reference not found"
		case "factory_failure":
			return "node construction failed"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

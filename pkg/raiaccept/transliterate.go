package raiaccept

import (
	"strings"
	"unicode"
)

// transliterationMap folds Greek, Arabic, Hebrew, Cyrillic and the Slavic
// extended letters to Latin. An empty replacement deletes the letter.
var transliterationMap = map[rune]string{
	// Greek
	'Α': "A", 'α': "a", 'Β': "B", 'β': "b", 'Γ': "G", 'γ': "g", 'Δ': "D", 'δ': "d",
	'Ε': "E", 'ε': "e", 'Ζ': "Z", 'ζ': "z", 'Η': "E", 'η': "e", 'Θ': "Th", 'θ': "th",
	'Ι': "I", 'ι': "i", 'Κ': "K", 'κ': "k", 'Λ': "L", 'λ': "l", 'Μ': "M", 'μ': "m",
	'Ν': "N", 'ν': "n", 'Ξ': "X", 'ξ': "x", 'Ο': "O", 'ο': "o", 'Π': "P", 'π': "p",
	'Ρ': "R", 'ρ': "r", 'Σ': "S", 'σ': "s", 'ς': "s", 'Τ': "T", 'τ': "t", 'Υ': "Y", 'υ': "u",
	'Φ': "Ph", 'φ': "ph", 'Χ': "Ch", 'χ': "ch", 'Ψ': "Ps", 'ψ': "ps", 'Ω': "O", 'ω': "o",

	// Arabic
	'ا': "a", 'ب': "b", 'ت': "t", 'ث': "th", 'ج': "j", 'ح': "h", 'خ': "kh", 'د': "d",
	'ذ': "dh", 'ر': "r", 'ز': "z", 'س': "s", 'ش': "sh", 'ص': "s", 'ض': "d", 'ط': "t",
	'ظ': "z", 'ع': "a", 'غ': "gh", 'ف': "f", 'ق': "q", 'ك': "k", 'ل': "l", 'م': "m",
	'ن': "n", 'ه': "h", 'و': "w", 'ي': "y", 'ء': "", 'آ': "a", 'أ': "a", 'إ': "i",
	'ى': "a", 'ة': "h",

	// Hebrew
	'א': "", 'ב': "b", 'ג': "g", 'ד': "d", 'ה': "h", 'ו': "v", 'ז': "z", 'ח': "ch",
	'ט': "t", 'י': "y", 'כ': "k", 'ך': "k", 'ל': "l", 'מ': "m", 'ם': "m", 'נ': "n",
	'ן': "n", 'ס': "s", 'ע': "", 'פ': "p", 'ף': "p", 'צ': "ts", 'ץ': "ts", 'ק': "k",
	'ר': "r", 'ש': "sh", 'ת': "t",

	// Cyrillic
	'А': "A", 'а': "a", 'Б': "B", 'б': "b", 'В': "V", 'в': "v", 'Г': "G", 'г': "g",
	'Д': "D", 'д': "d", 'Е': "E", 'е': "e", 'Ё': "E", 'ё': "e", 'Ж': "Z", 'ж': "z",
	'З': "Z", 'з': "z", 'И': "I", 'и': "i", 'Й': "J", 'й': "j", 'К': "K", 'к': "k",
	'Л': "L", 'л': "l", 'М': "M", 'м': "m", 'Н': "N", 'н': "n", 'О': "O", 'о': "o",
	'П': "P", 'п': "p", 'Р': "R", 'р': "r", 'С': "S", 'с': "s", 'Т': "T", 'т': "t",
	'У': "U", 'у': "u", 'Ф': "F", 'ф': "f", 'Х': "H", 'х': "h", 'Ц': "C", 'ц': "c",
	'Ч': "Ch", 'ч': "ch", 'Ш': "Sh", 'ш': "sh", 'Щ': "Sch", 'щ': "sch", 'Ъ': "", 'ъ': "",
	'Ы': "Y", 'ы': "y", 'Ь': "", 'ь': "", 'Э': "E", 'э': "e", 'Ю': "Yu", 'ю': "yu",
	'Я': "Ya", 'я': "ya",

	// Ukrainian
	'Є': "Ye", 'є': "ye", 'І': "I", 'і': "i", 'Ї': "Yi", 'ї': "yi", 'Ґ': "G", 'ґ': "g",

	// Belarusian
	'Ў': "U", 'ў': "u",

	// Serbian / Macedonian
	'Ђ': "Dj", 'ђ': "dj", 'Љ': "Lj", 'љ': "lj", 'Њ': "Nj", 'њ': "nj", 'Ћ': "C", 'ћ': "c",
	'Џ': "Dz", 'џ': "dz",
}

// isSpace matches the whitespace class of ECMAScript regular expressions.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// isPlain reports whether r is left alone by the character-map pass.
func isPlain(r rune) bool {
	if isASCIIAlnum(r) || isSpace(r) {
		return true
	}
	return strings.ContainsRune(".,-'/@_", r)
}

// isAllowed reports whether r survives the post-pass.
func isAllowed(r rune) bool {
	return isASCIIAlnum(r) || strings.ContainsRune(".,-'!/@_", r)
}

// TransliterateNonLatin replaces every mapped code point with its Latin
// form and leaves everything else untouched.
func TransliterateNonLatin(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return !isPlain(r) }) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := transliterationMap[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Transliterate folds s to the character set the gateway accepts: ASCII
// letters, digits, single spaces and . , - ' ! / @ _. Every other character
// becomes a space, whitespace runs collapse to one space and the result is
// trimmed.
func Transliterate(s string) string {
	if s == "" {
		return ""
	}
	s = TransliterateNonLatin(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if !isAllowed(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// TransliteratePtr is Transliterate for optional values; nil stays nil.
func TransliteratePtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Transliterate(*s)
	return &out
}

// TransliterateAndLimitLength transliterates s, truncates it to limit
// characters and replaces & ; < > | ` \ with spaces. A limit of zero or less
// means DefaultLimit. ok is false when nothing is left.
func TransliterateAndLimitLength(s string, limit int) (out string, ok bool) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out = Transliterate(s)
	if out == "" {
		return "", false
	}
	if len(out) > limit {
		out = out[:limit]
	}
	out = strings.Map(func(r rune) rune {
		if strings.ContainsRune("&;<>|`\\", r) {
			return ' '
		}
		return r
	}, out)
	return out, out != ""
}

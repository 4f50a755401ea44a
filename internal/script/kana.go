package script

import "strings"

// romajiKana maps lower-case romaji clusters to katakana. Lookups try the
// longest cluster first, so "sha" wins over "s" + "ha".
var romajiKana = map[string]string{
	"a": "ア", "i": "イ", "u": "ウ", "e": "エ", "o": "オ",

	"ka": "カ", "ki": "キ", "ku": "ク", "ke": "ケ", "ko": "コ",
	"kya": "キャ", "kyu": "キュ", "kyo": "キョ",
	"ga": "ガ", "gi": "ギ", "gu": "グ", "ge": "ゲ", "go": "ゴ",
	"gya": "ギャ", "gyu": "ギュ", "gyo": "ギョ",

	"sa": "サ", "si": "シ", "shi": "シ", "su": "ス", "se": "セ", "so": "ソ",
	"sha": "シャ", "shu": "シュ", "sho": "ショ", "she": "シェ",
	"sya": "シャ", "syu": "シュ", "syo": "ショ",
	"za": "ザ", "zi": "ジ", "zu": "ズ", "ze": "ゼ", "zo": "ゾ",
	"ja": "ジャ", "ji": "ジ", "ju": "ジュ", "je": "ジェ", "jo": "ジョ",
	"jya": "ジャ", "jyu": "ジュ", "jyo": "ジョ",
	"zya": "ジャ", "zyu": "ジュ", "zyo": "ジョ",

	"ta": "タ", "ti": "チ", "chi": "チ", "tu": "ツ", "tsu": "ツ", "te": "テ", "to": "ト",
	"cha": "チャ", "chu": "チュ", "cho": "チョ", "che": "チェ",
	"tya": "チャ", "tyu": "チュ", "tyo": "チョ",
	"da": "ダ", "di": "ヂ", "du": "ヅ", "de": "デ", "do": "ド",

	"na": "ナ", "ni": "ニ", "nu": "ヌ", "ne": "ネ", "no": "ノ",
	"nya": "ニャ", "nyu": "ニュ", "nyo": "ニョ",

	"ha": "ハ", "hi": "ヒ", "hu": "フ", "fu": "フ", "he": "ヘ", "ho": "ホ",
	"hya": "ヒャ", "hyu": "ヒュ", "hyo": "ヒョ",
	"fa": "ファ", "fi": "フィ", "fe": "フェ", "fo": "フォ",
	"ba": "バ", "bi": "ビ", "bu": "ブ", "be": "ベ", "bo": "ボ",
	"bya": "ビャ", "byu": "ビュ", "byo": "ビョ",
	"pa": "パ", "pi": "ピ", "pu": "プ", "pe": "ペ", "po": "ポ",
	"pya": "ピャ", "pyu": "ピュ", "pyo": "ピョ",

	"ma": "マ", "mi": "ミ", "mu": "ム", "me": "メ", "mo": "モ",
	"mya": "ミャ", "myu": "ミュ", "myo": "ミョ",
	"ya": "ヤ", "yu": "ユ", "yo": "ヨ",
	"ra": "ラ", "ri": "リ", "ru": "ル", "re": "レ", "ro": "ロ",
	"rya": "リャ", "ryu": "リュ", "ryo": "リョ",
	"la": "ラ", "li": "リ", "lu": "ル", "le": "レ", "lo": "ロ",
	"wa": "ワ", "wi": "ウィ", "we": "ウェ", "wo": "ヲ",
	"va": "ヴァ", "vi": "ヴィ", "vu": "ヴ", "ve": "ヴェ", "vo": "ヴォ",

	"-": "ー",
}

const maxCluster = 3

func isVowel(b byte) bool {
	switch b {
	case 'a', 'i', 'u', 'e', 'o':
		return true
	}
	return false
}

func isConsonant(b byte) bool {
	return b >= 'a' && b <= 'z' && !isVowel(b)
}

// ToKatakana spells lower-case romaji in katakana. Doubled consonants become
// a small ッ, a syllable-final "n" becomes ン, and anything without a table
// entry (digits, spaces, stray consonants) is copied through.
func ToKatakana(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)

	for i := 0; i < len(s); {
		c := s[i]

		if c == 'n' && (i+1 == len(s) || (!isVowel(s[i+1]) && s[i+1] != 'y')) {
			b.WriteString("ン")
			i++
			if i < len(s) && s[i] == 'n' && (i+1 == len(s) || (!isVowel(s[i+1]) && s[i+1] != 'y')) {
				i++
			}
			continue
		}

		if isConsonant(c) && i+1 < len(s) && s[i+1] == c {
			b.WriteString("ッ")
			i++
			continue
		}

		matched := false
		for n := maxCluster; n > 0; n-- {
			if i+n > len(s) {
				continue
			}
			if kana, ok := romajiKana[s[i:i+n]]; ok {
				b.WriteString(kana)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

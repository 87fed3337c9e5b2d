package signal

// lexicon is a compact AFINN-style valence table (-5..+5) covering the
// vocabulary journal entries lean on.
var lexicon = map[string]int{
	// positive
	"amazing": 4, "awesome": 4, "beautiful": 3, "best": 3, "better": 2, "blessed": 3,
	"calm": 2, "celebrate": 3, "cheerful": 2, "confident": 2, "content": 2,
	"delighted": 3, "energized": 2, "enjoy": 2, "enjoyed": 2, "excited": 3,
	"fantastic": 4, "fun": 4, "glad": 3, "good": 3, "grateful": 3, "great": 3,
	"happy": 3, "hope": 2, "hopeful": 2, "inspired": 2, "joy": 3, "joyful": 3,
	"kind": 2, "laugh": 1, "love": 3, "loved": 3, "lovely": 3, "nice": 3,
	"optimistic": 2, "peaceful": 2, "productive": 2, "proud": 2, "relaxed": 2,
	"relief": 1, "relieved": 2, "rested": 2, "safe": 1, "smile": 2, "strong": 2,
	"success": 2, "thankful": 2, "win": 4, "wonderful": 4, "appreciate": 2,
	"accomplished": 2, "progress": 2, "steady": 1, "support": 2, "supported": 2,
	// negative
	"afraid": -2, "alone": -2, "angry": -3, "annoyed": -2, "anxious": -2,
	"anxiety": -2, "ashamed": -2, "awful": -3, "bad": -3, "broken": -1,
	"burnout": -2, "cry": -1, "cried": -2, "depressed": -2, "disappointed": -2,
	"drained": -2, "dread": -2, "exhausted": -2, "fail": -2, "failed": -2,
	"fear": -2, "frustrated": -2, "guilty": -3, "hate": -3, "hopeless": -2,
	"hurt": -2, "lonely": -2, "lost": -3, "miserable": -3, "nervous": -2,
	"overwhelmed": -2, "pain": -2, "panic": -3, "pressure": -1, "sad": -2,
	"scared": -2, "sick": -2, "stress": -1, "stressed": -2, "stuck": -2,
	"terrible": -3, "tired": -2, "upset": -2, "worried": -3, "worry": -3,
	"worse": -3, "worst": -3, "heavy": -1, "empty": -1, "numb": -1,
}

// negators flip the valence of the next token.
var negators = map[string]bool{
	"not": true, "no": true, "never": true, "dont": true, "don": true, "cant": true,
	"isnt": true, "wasnt": true, "didnt": true,
}

// SentimentScore returns the summed lexicon valence of text. A negator
// directly before a scored token flips that token's sign.
func SentimentScore(text string) int {
	tokens := Tokenize(text)
	score := 0
	for i, t := range tokens {
		v, ok := lexicon[t]
		if !ok {
			continue
		}
		if i > 0 && negators[tokens[i-1]] {
			v = -v
		}
		score += v
	}
	return score
}

// MoodLabelFromScore buckets a sentiment score into the five stored mood labels.
func MoodLabelFromScore(score int) string {
	switch {
	case score >= 5:
		return "Great"
	case score >= 2:
		return "Good"
	case score >= -1:
		return "Okay"
	case score >= -4:
		return "Bad"
	default:
		return "Awful"
	}
}

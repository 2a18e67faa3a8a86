package textvec

// defaultStopWords is the fixed English stop-word list applied to tag text:
// articles, conjunctions, prepositions, pronouns, auxiliaries and a few
// high-frequency adverbs. Product vocabulary (colors, materials, units) is
// deliberately absent.
var defaultStopWords = []string{
	// articles and conjunctions
	"a", "an", "the", "and", "or", "but", "nor", "if", "then", "else", "so", "than", "as",
	"because", "while", "whether", "though", "although", "unless", "until",
	// prepositions
	"about", "above", "across", "after", "against", "along", "among", "around", "at",
	"before", "behind", "below", "beneath", "beside", "besides", "between", "beyond", "by",
	"down", "during", "except", "for", "from", "in", "inside", "into", "near", "of", "off",
	"on", "onto", "out", "outside", "over", "per", "since", "through", "throughout", "to",
	"toward", "towards", "under", "underneath", "up", "upon", "via", "with", "within", "without",
	// pronouns and determiners
	"i", "me", "my", "mine", "myself", "we", "us", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves", "he", "him", "his", "himself",
	"she", "her", "hers", "herself", "it", "its", "itself", "they", "them", "their",
	"theirs", "themselves", "this", "that", "these", "those", "who", "whom", "whose",
	"which", "what", "whatever", "whichever", "whoever", "each", "every", "either",
	"neither", "some", "any", "all", "both", "few", "many", "much", "more", "most",
	"other", "others", "another", "such", "no", "none", "own", "same",
	// auxiliaries and modals
	"am", "is", "are", "was", "were", "be", "been", "being", "have", "has", "had",
	"having", "do", "does", "did", "doing", "done", "can", "could", "may", "might",
	"must", "shall", "should", "will", "would", "ought",
	// adverbs and fillers
	"again", "also", "already", "always", "here", "there", "where", "when", "why", "how",
	"just", "now", "not", "only", "too", "very", "yet", "ever", "never", "once", "further",
	"however", "therefore", "thus", "hence", "else", "etc", "ie", "eg",
}

func stopWordSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

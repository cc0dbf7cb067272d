package extract

// stopWordList is the fixed, domain-curated stop-word set: common English
// function words plus generic academic filler that would otherwise dominate
// every abstract. Embedded so extraction never depends on runtime NLP
// resources.
var stopWordList = []string{
	// Function words.
	"a", "an", "the", "and", "or", "but", "if", "because", "as", "what",
	"which", "this", "that", "these", "those", "then", "just", "so", "than",
	"such", "when", "who", "how", "where", "why", "is", "are", "was", "were",
	"be", "been", "being", "have", "has", "had", "having", "do", "does",
	"did", "doing", "to", "at", "by", "for", "with", "about", "against",
	"between", "into", "through", "during", "before", "after", "above",
	"below", "from", "up", "down", "in", "out", "on", "off", "over", "under",
	"again", "further", "once", "here", "there", "all", "any", "both",
	"each", "few", "more", "most", "other", "some", "no", "nor", "not",
	"only", "own", "same", "too", "very", "can", "will", "should", "would",
	"could", "may", "might", "must", "shall", "now", "of", "i", "me", "my",
	"myself", "we", "our", "ours", "ourselves", "you", "your", "yours",
	"yourself", "yourselves", "he", "him", "his", "himself", "she", "her",
	"hers", "herself", "it", "its", "itself", "they", "them", "their",
	"theirs", "themselves", "also", "among", "within", "without", "while",
	"however", "therefore", "thus", "although", "whether", "since", "upon",

	// Academic filler.
	"study", "studies", "result", "results", "figure", "figures", "table",
	"tables", "data", "analysis", "analyses", "method", "methods",
	"conclusion", "conclusions", "introduction", "discussion", "abstract",
	"paper", "article", "research", "using", "used", "show", "shown",
	"shows", "showed", "found", "findings", "observed", "significant",
	"significantly", "compared", "based", "including", "respectively",
	"approach", "effect", "effects", "level", "levels", "group", "groups",
	"increased", "decreased", "changes", "response", "associated",
}

// stopWords is the membership set built from stopWordList.
var stopWords = func() map[string]struct{} {
	set := make(map[string]struct{}, len(stopWordList))
	for _, w := range stopWordList {
		set[w] = struct{}{}
	}
	return set
}()

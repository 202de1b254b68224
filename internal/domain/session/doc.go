// Package session implements the study and match session engines that drive
// a single pass over a set of flashcards.
//
// A StudySession walks the cards in order with flip and navigation controls,
// optionally tallying known/retry marks and reporting a Summary when the pass
// completes. A MatchSession pairs independently shuffled terms and
// definitions until every card has been matched.
//
// Sessions are owned by whoever created them (an HTTP session registry or a
// terminal program) and must be closed when discarded so deferred feedback
// actions cannot mutate them afterwards.
package session

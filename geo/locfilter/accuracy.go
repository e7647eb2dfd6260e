package locfilter

// AccuracyAcceptable is the accuracy factor of a fix good enough to use as-is.
const AccuracyAcceptable = -1.0

// AccuracyFactor maps an accuracy radius in meters to a correction factor.
// Acceptable accuracies yield AccuracyAcceptable. Unknown accuracies (<= 0) yield 1.
// Anything worse yields ValidAccuracy/accuracy, which is below 1.
func (fl *Filterer) AccuracyFactor(accuracy float64) float64 {
	if accuracy > fl.Config.AcceptableAccuracyMin && accuracy <= fl.Config.ValidAccuracy {
		return AccuracyAcceptable
	}
	if accuracy <= 0 {
		return 1
	}
	return fl.Config.ValidAccuracy / accuracy
}

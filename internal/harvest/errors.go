package harvest

import "github.com/rotisserie/eris"

// Fatal setup errors. Both abort a run before any query is issued.
var (
	ErrDataLoad = eris.New("identifier data could not be loaded")
	ErrConfig   = eris.New("invalid harvest configuration")
)

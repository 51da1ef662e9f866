package buildstatus

import "context"

// API exposes build status queries to the frontend via Wails binding.
type API struct {
	svc *Service
}

func NewAPI(svc *Service) *API { return &API{svc: svc} }

func (a *API) TrackBuildType(buildType, branch string) {
	a.svc.Track(buildType, branch)
}

func (a *API) UntrackBuildType(buildType, branch string) {
	a.svc.Untrack(buildType, branch)
}

func (a *API) LatestBuilds(buildType, branch string) ([]Build, error) {
	return a.svc.Latest(context.Background(), buildType, branch)
}

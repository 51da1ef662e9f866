package config

// API exposes preference access to the frontend via Wails binding.
type API struct {
	store *Store
}

func NewAPI(store *Store) *API { return &API{store: store} }

func (a *API) GetPreferences() Prefs { return a.store.Current() }

func (a *API) UpdateDiffPreferences(diff DiffPrefs) (Prefs, error) {
	return a.store.Update(func(p *Prefs) { p.Diff = diff })
}

func (a *API) UpdateBuildStatusPreferences(bs BuildStatusPrefs) (Prefs, error) {
	return a.store.Update(func(p *Prefs) { p.BuildStatus = bs })
}

package forecast

func (s *Service) CachedEntries() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

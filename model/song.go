package model

type Tempo struct {
	BPM   float64 `json:"bpm"`
	Ticks int     `json:"ticks"`
	Time  float64 `json:"time"`
}

type KeySignature struct {
	Key   string `json:"key"`
	Scale string `json:"scale"`
	Ticks int    `json:"ticks"`
}

type SongTimeSignature struct {
	Ticks         int           `json:"ticks"`
	TimeSignature TimeSignature `json:"timeSignature"`
	Measures      int           `json:"measures"`
}

type SongMeasure struct {
	Time            float64       `json:"time"`
	TimeSignature   TimeSignature `json:"timeSignature"`
	TicksPerMeasure int           `json:"ticksPerMeasure"`
	TicksStart      float64       `json:"ticksStart"`
	Type            int           `json:"type"`
	TotalTicks      float64       `json:"totalTicks"`
}

type SupportingTrackMidi struct {
	Midi     int     `json:"midi"`
	Time     float64 `json:"time"`
	Velocity float64 `json:"velocity"`
	Duration float64 `json:"duration"`
}

type SupportingTrack struct {
	Notes           []SupportingTrackMidi `json:"notes"`
	MyInstrument    int                   `json:"myInstrument"`
	TheirInstrument int                   `json:"theirInstrument"`
}

type Section struct {
	Name         string  `json:"name"`
	StartMeasure float64 `json:"startMeasure"`
	EndMeasure   float64 `json:"endMeasure"`
}

type PositionGroup struct {
	Name         string  `json:"name"`
	IsTreble     bool    `json:"isTreble"`
	StartMeasure float64 `json:"startMeasure"`
	EndMeasure   float64 `json:"endMeasure"`
}

type TechnicalGroup struct {
	Name         string  `json:"name"`
	IsTreble     bool    `json:"isTreble"`
	BarType      string  `json:"barType"`
	StartMeasure float64 `json:"startMeasure"`
	EndMeasure   float64 `json:"endMeasure"`
}

type Song struct {
	Name                    string              `json:"name"`
	Artist                  string              `json:"artist"`
	Resolution              int                 `json:"resolution"`
	StartTime               float64             `json:"start_time"`
	SongLength              float64             `json:"song_length"`
	AccompanyingChannels    []int               `json:"accompanyingChannels"`
	AccompanyingInstruments []int               `json:"accompanyingInstruments"`
	AccompanyingTracks      []any               `json:"accompanyingTracks"`
	KeySignatures           []KeySignature      `json:"keySignatures"`
	Tempos                  []Tempo             `json:"tempos"`
	TimeSignatures          []SongTimeSignature `json:"timeSignatures"`
	Measures                []SongMeasure       `json:"measures"`
	TracksV2                *Tracks             `json:"tracksV2"`
	MaxSimplification       int                 `json:"maxSimplification"`
	SupportingTracks        []SupportingTrack   `json:"supportingTracks"`
	Sections                []Section           `json:"sections"`
	PositionGroups          []PositionGroup     `json:"positionGroups"`
	TechnicalGroups         []TechnicalGroup    `json:"technicalGroups"`
}

package model

// BoundingBox holds normalized page coordinates (0-1 range).
// left/right: 0 = left edge, 1 = right edge; top/bottom: 0 = top edge, 1 = bottom edge.
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// FieldLocation identifies where a field was extracted from in the document
type FieldLocation struct {
	Page    int         `json:"page"` // Zero-indexed page number
	BBox    BoundingBox `json:"bbox"`
	ChunkID string      `json:"chunk_id,omitempty"` // Extraction-service chunk reference
}

// ExtractedField is a single raw field produced by the extraction service.
// Immutable once produced; the engine never writes back into it.
type ExtractedField struct {
	Name       string         `json:"name"`
	RawValue   string         `json:"raw_value"`
	Confidence *float64       `json:"confidence,omitempty"` // 0-1, if the extractor reports one
	Location   *FieldLocation `json:"location,omitempty"`
}

// Present reports whether the field was found with a non-empty value
func (f *ExtractedField) Present() bool {
	return f != nil && f.RawValue != ""
}

// CalibrationInfo holds the extracted calibration certificate for one instrument
type CalibrationInfo struct {
	InstrumentType    string          `json:"instrument_type,omitempty"` // thermography, grounding, megger
	SerialNumber      *ExtractedField `json:"serial_number,omitempty"`
	CalibrationDate   *ExtractedField `json:"calibration_date,omitempty"`
	ExpirationDate    *ExtractedField `json:"expiration_date,omitempty"`
	CertificateNumber *ExtractedField `json:"certificate_number,omitempty"`
	CalibratingLab    *ExtractedField `json:"calibrating_lab,omitempty"`
}

// MeasurementReading is a single measurement from the report body
type MeasurementReading struct {
	LocationLabel string          `json:"location_label"` // e.g. "Panel A", "Circuit 1"
	Value         *ExtractedField `json:"value,omitempty"`
	Unit          string          `json:"unit,omitempty"`
}

// ThermographyData holds thermography-specific extracted fields
type ThermographyData struct {
	CameraAmbientTemp    *ExtractedField      `json:"camera_ambient_temp,omitempty"` // Camera's ambient temp setting
	DataloggerTemp       *ExtractedField      `json:"datalogger_temp,omitempty"`     // External datalogger reading
	PhaseReadings        []MeasurementReading `json:"phase_readings,omitempty"`      // Phase A, B, C temperatures
	EnergyMarshalComment *ExtractedField      `json:"energy_marshal_comment,omitempty"`
	PhotoSerialNumber    *ExtractedField      `json:"photo_serial_number,omitempty"` // Serial visible on instrument photo
	HeaderSerialNumber   *ExtractedField      `json:"header_serial_number,omitempty"`
}

// GroundingData holds grounding-test extracted fields
type GroundingData struct {
	ResistanceValue  *ExtractedField `json:"resistance_value,omitempty"`
	TestMethod       *ExtractedField `json:"test_method,omitempty"`
	InstallationType *ExtractedField `json:"installation_type,omitempty"` // "new" or "existing"
}

// MeggerData holds insulation-test extracted fields
type MeggerData struct {
	EquipmentVoltageRating *ExtractedField `json:"equipment_voltage_rating,omitempty"`
	TestVoltage            *ExtractedField `json:"test_voltage,omitempty"`
	InsulationResistance   *ExtractedField `json:"insulation_resistance,omitempty"`
}

// ExtractionStatus is the extraction service's own completion status
type ExtractionStatus string

const (
	ExtractionCompleted ExtractionStatus = "completed"
	ExtractionPartial   ExtractionStatus = "partial"
	ExtractionFailed    ExtractionStatus = "failed"
)

// ExtractionResult is the complete structured output of the extraction
// service for one document. It is the engine's only view of the PDF.
type ExtractionResult struct {
	DocumentID string           `json:"document_id"`
	Status     ExtractionStatus `json:"status"`
	PageCount  int              `json:"page_count"`
	TestType   string           `json:"test_type"` // thermography, grounding, megger

	Calibrations []CalibrationInfo    `json:"calibrations,omitempty"`
	Measurements []MeasurementReading `json:"measurements,omitempty"`
	Thermography *ThermographyData    `json:"thermography,omitempty"`
	Grounding    *GroundingData       `json:"grounding,omitempty"`
	Megger       *MeggerData          `json:"megger,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"`
	ModelVersion string `json:"model_version,omitempty"`
}

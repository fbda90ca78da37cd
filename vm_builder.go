package bodsfeed

import (
	"time"

	"github.com/midlandbus/bods-feed/siri"
)

// BuildVehicleMonitoring assembles the SIRI-VM response for a set of records.
// It is a pure function of its inputs: the same records, instant and producer
// always yield the same document. Every record is validated before rendering;
// a record missing a mandatory field fails the whole build, since that should
// never happen if the provider upholds its contract.
func BuildVehicleMonitoring(records []VehiclePositionRecord, now time.Time, producerRef string) (*siri.Response, error) {
	activities := make([]siri.VehicleActivity, 0, len(records))
	for i := range records {
		r := &records[i]
		if err := r.Validate(); err != nil {
			return nil, err
		}
		activities = append(activities, buildVehicleActivity(r))
	}

	ts := SiriTimestamp(now)
	return &siri.Response{
		Siri: siri.ServiceDeliveryWrapper{
			ServiceDelivery: siri.ServiceDelivery{
				ResponseTimestamp: ts,
				ProducerRef:       producerRef,
				VehicleMonitoringDelivery: []siri.VehicleMonitoringDelivery{
					{
						ResponseTimestamp: ts,
						ProducerRef:       producerRef,
						ValidUntilTime:    SiriTimestamp(now.Add(ValidityWindow)),
						VehicleActivity:   activities,
					},
				},
			},
		},
	}, nil
}

func buildVehicleActivity(r *VehiclePositionRecord) siri.VehicleActivity {
	lon := r.Longitude
	lat := r.Latitude
	bearing := r.Bearing

	mvj := siri.MonitoredVehicleJourney{
		LineRef:           r.LineRef,
		DirectionRef:      r.DirectionRef,
		PublishedLineName: r.PublishedLineName,
		OperatorRef:       r.OperatorRef,
		OriginRef:         r.OriginRef,
		OriginName:        r.OriginName,
		DestinationRef:    r.DestinationRef,
		DestinationName:   r.DestinationName,
		VehicleLocation:   siri.VehicleLocation{Longitude: &lon, Latitude: &lat},
		Bearing:           &bearing,
		Velocity:          r.Velocity,
		Occupancy:         r.Occupancy,
		BlockRef:          r.BlockRef,
		VehicleJourneyRef: r.VehicleJourneyRef,
		VehicleRef:        r.VehicleRef,
	}
	if r.OriginAimedDepartureTime != nil {
		mvj.OriginAimedDepartureTime = SiriTimestamp(*r.OriginAimedDepartureTime)
	}
	if r.DestinationAimedArrivalTime != nil {
		mvj.DestinationAimedArrivalTime = SiriTimestamp(*r.DestinationAimedArrivalTime)
	}

	return siri.VehicleActivity{
		RecordedAtTime:          SiriTimestamp(r.RecordedAtTime),
		ValidUntilTime:          SiriTimestamp(r.ValidUntilTime),
		ItemIdentifier:          r.ItemIdentifier(),
		MonitoredVehicleJourney: mvj,
	}
}

// BuildCheckStatus assembles the check-status response. ServiceStartedTime
// comes from the status value, not from now; calling twice across the process
// lifetime yields the same ServiceStartedTime.
func BuildCheckStatus(status ServiceStatus) *siri.StatusResponse {
	return &siri.StatusResponse{
		Siri: siri.CheckStatusWrapper{
			CheckStatusResponse: siri.CheckStatusResponse{
				Status:             status.Status,
				ServiceStartedTime: SiriTimestamp(status.ServiceStartedTime),
				DataReady:          status.DataReady,
			},
		},
	}
}

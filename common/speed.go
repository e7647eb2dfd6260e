package common

const SpeedOfWalkingMin = 0.23 // or 0.8 km/h or 0.5 mph
const SpeedOfWalkingSlow = 0.5 // or 1.8 km/h or 1.1 mph
const SpeedOfWalkingMean = 1.2 // or 4.3 km/h or 2.7 mph
const SpeedOfWalkingMax = 1.78 // or 6.4 km/h or 4 mph

const SpeedOfRunningMin = 2.23  // or 8 km/h or 5 mph
const SpeedOfRunningMax = 5.56  // or 20 km/h or 12 mph
const SpeedOfRunningMean = 3.35 // or 12 km/h or 7.5 mph or 8min/mile

const SpeedOfCyclingMax = 11.76 // or 42 km/h or 26 mph

const SpeedOfDrivingMin = 4.47        // or 16 km/h or 10 mph
const SpeedOfDrivingCityUSMean = 13.9 // or 50 km/h or 31 mph
const SpeedOfDrivingAutobahn = 67.06  // or 241 km/h or 150 mph

const SpeedOfSound = 343.0

package common

const ElevationOfDeadSea = -430.5
const ElevationOfEverest = 8848.86
const ElevationCommercialFlightCruising = 10_668.0 // or 35,000 ft
